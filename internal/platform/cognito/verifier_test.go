package cognito

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/testutil"
)

const (
	testKid      = "key-1"
	testAudience = "client-id"
	testIssuer   = "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_test"
)

func newTestVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()
	key := testutil.NewSigningKey(t)
	v := NewVerifierWithKeys(
		map[string]*rsa.PublicKey{testKid: &key.PublicKey},
		testAudience, testIssuer,
	)
	return v, key
}

func TestVerify(t *testing.T) {
	v, key := newTestVerifier(t)
	token := testutil.MintToken(t, key, testKid, testAudience, testIssuer, []string{"Users"}, time.Hour)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims.Username)
	assert.True(t, claims.HasRole("Users"))
	assert.False(t, claims.HasRole("Admins"))
}

func TestVerifyRejections(t *testing.T) {
	v, key := newTestVerifier(t)
	strangerKey := testutil.NewSigningKey(t)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"expired", testutil.MintToken(t, key, testKid, testAudience, testIssuer, nil, -time.Minute)},
		{"wrong audience", testutil.MintToken(t, key, testKid, "someone-else", testIssuer, nil, time.Hour)},
		{"wrong issuer", testutil.MintToken(t, key, testKid, testAudience, "https://evil.example.com", nil, time.Hour)},
		{"unknown kid", testutil.MintToken(t, key, "key-2", testAudience, testIssuer, nil, time.Hour)},
		{"wrong key", testutil.MintToken(t, strangerKey, testKid, testAudience, testIssuer, nil, time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	v, _ := newTestVerifier(t)

	// header {"alg":"none","kid":"key-1"} with an otherwise plausible payload
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","kid":"key-1"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"aud":"client-id"}`))

	_, err := v.Verify(context.Background(), header+"."+payload+".")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifierFetchesJWKS(t *testing.T) {
	key := testutil.NewSigningKey(t)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		doc := map[string]any{
			"keys": []map[string]string{{
				"kid": testKid,
				"kty": "RSA",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		}
		json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	v, err := NewVerifier(context.Background(), Config{
		ClientID: testAudience,
		Endpoint: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "/.well-known/jwks.json", gotPath)

	token := testutil.MintToken(t, key, testKid, testAudience, srv.URL, []string{"Users"}, time.Hour)
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims.Username)
}

func TestNewVerifierJWKSErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{"))
			},
		},
		{
			name: "no rsa keys",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"keys":[{"kid":"ec-key","kty":"EC"}]}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewVerifier(context.Background(), Config{ClientID: testAudience, Endpoint: srv.URL})
			assert.Error(t, err)
		})
	}
}

func TestIssuerURL(t *testing.T) {
	cfg := Config{Region: "eu-west-1", UserPoolID: "eu-west-1_test"}
	assert.Equal(t, "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_test", cfg.IssuerURL())

	cfg.Endpoint = "http://localhost:9229"
	assert.Equal(t, "http://localhost:9229", cfg.IssuerURL())
}
