package http

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/cognito"
	"bookshelf/internal/review"
	"bookshelf/internal/store"
	"bookshelf/internal/testutil"
)

// newTestServer wires the full router over the in-memory store, the way
// the binary runs in dev mode.
func newTestServer(t *testing.T, verifier *cognito.Verifier, role string) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	deps := RouterDeps{
		Books:        book.NewService(mem.Books()),
		Reviews:      review.NewService(mem.Reviews()),
		RequiredRole: role,
		Ready:        func(context.Context) error { return nil },
	}
	if verifier != nil {
		deps.Verifier = verifier
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&env)
	}
	return resp.StatusCode, env
}

func TestRouterBookLifecycle(t *testing.T) {
	srv := newTestServer(t, nil, "")

	// empty collection
	status, env := do(t, srv, http.MethodGet, "/books", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(env.Data))

	// create
	status, env = do(t, srv, http.MethodPost, "/books", map[string]interface{}{
		"title": "T", "author": "A", "year": 2024, "description": "D",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	var created book.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(1), created.ID)

	// read back
	status, env = do(t, srv, http.MethodGet, "/books/1", nil, "")
	assert.Equal(t, http.StatusOK, status)
	var got book.Book
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created, got)

	// full replacement drops the description
	status, _ = do(t, srv, http.MethodPut, "/books/1", map[string]interface{}{
		"title": "T2", "author": "A2", "year": 2025,
	}, "")
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodGet, "/books/1", nil, "")
	require.Equal(t, http.StatusOK, status)
	got = book.Book{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "T2", got.Title)
	assert.Nil(t, got.Description)

	// delete
	status, _ = do(t, srv, http.MethodDelete, "/books/1", nil, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, env = do(t, srv, http.MethodGet, "/books/1", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestRouterReviewLifecycleAndCascade(t *testing.T) {
	srv := newTestServer(t, nil, "")

	status, _ := do(t, srv, http.MethodPost, "/books", map[string]interface{}{
		"title": "T", "author": "A", "year": 2024,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// no reviews yet: 200 with an empty list
	status, env := do(t, srv, http.MethodGet, "/books/1/reviews", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(env.Data))

	status, env = do(t, srv, http.MethodPost, "/books/1/reviews", map[string]interface{}{
		"review": "great",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	var rv review.Review
	require.NoError(t, json.Unmarshal(env.Data, &rv))
	assert.Equal(t, int64(1), rv.BookID)

	status, _ = do(t, srv, http.MethodPut, "/books/1/reviews/1", map[string]interface{}{
		"review": "revised",
	}, "")
	assert.Equal(t, http.StatusOK, status)

	// deleting the book cascades to its reviews
	status, _ = do(t, srv, http.MethodDelete, "/books/1", nil, "")
	require.Equal(t, http.StatusNoContent, status)

	status, env = do(t, srv, http.MethodGet, "/books/1/reviews", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestRouterOwnershipMismatch(t *testing.T) {
	srv := newTestServer(t, nil, "")

	for _, title := range []string{"owner", "other"} {
		status, _ := do(t, srv, http.MethodPost, "/books", map[string]interface{}{
			"title": title, "author": "A", "year": 2024,
		}, "")
		require.Equal(t, http.StatusCreated, status)
	}
	status, _ := do(t, srv, http.MethodPost, "/books/1/reviews", map[string]interface{}{
		"review": "belongs to book 1",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// book 2 exists and review 1 exists, but they are not related
	status, env := do(t, srv, http.MethodPut, "/books/2/reviews/1", map[string]interface{}{
		"review": "hijacked",
	}, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ownership_mismatch", env.Error.Code)

	status, env = do(t, srv, http.MethodDelete, "/books/2/reviews/1", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ownership_mismatch", env.Error.Code)
}

func TestRouterRoleGate(t *testing.T) {
	key := testutil.NewSigningKey(t)
	issuer := "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_test"
	verifier := cognito.NewVerifierWithKeys(
		map[string]*rsa.PublicKey{"key-1": &key.PublicKey},
		"client-id", issuer,
	)
	srv := newTestServer(t, verifier, "Users")

	userToken := testutil.MintToken(t, key, "key-1", "client-id", issuer, []string{"Users"}, time.Hour)
	readerToken := testutil.MintToken(t, key, "key-1", "client-id", issuer, []string{"Readers"}, time.Hour)

	// creating books needs no token
	status, _ := do(t, srv, http.MethodPost, "/books", map[string]interface{}{
		"title": "T", "author": "A", "year": 2024,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// listing reviews needs no token either
	status, _ = do(t, srv, http.MethodGet, "/books/1/reviews", nil, "")
	assert.Equal(t, http.StatusOK, status)

	reviewBody := map[string]interface{}{"review": "x"}

	status, env := do(t, srv, http.MethodPost, "/books/1/reviews", reviewBody, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", env.Error.Code)

	status, env = do(t, srv, http.MethodPost, "/books/1/reviews", reviewBody, readerToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", env.Error.Code)

	status, _ = do(t, srv, http.MethodPost, "/books/1/reviews", reviewBody, userToken)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = do(t, srv, http.MethodPut, "/books/1/reviews/1", reviewBody, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodPut, "/books/1/reviews/1", reviewBody, userToken)
	assert.Equal(t, http.StatusOK, status)

	// deletes are not role gated
	status, _ = do(t, srv, http.MethodDelete, "/books/1/reviews/1", nil, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRouterHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil, "")

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterReadyzFailsWhenStoreDown(t *testing.T) {
	mem := store.NewMemory()
	deps := RouterDeps{
		Books:   book.NewService(mem.Books()),
		Reviews: review.NewService(mem.Reviews()),
		Ready:   func(context.Context) error { return errors.New("down") },
	}
	srv := httptest.NewServer(NewRouter(deps))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouterSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, nil, "")

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRouterStatsTitles(t *testing.T) {
	srv := newTestServer(t, nil, "")

	for _, title := range []string{"Go Basics", "Go Patterns"} {
		status, _ := do(t, srv, http.MethodPost, "/books", map[string]interface{}{
			"title": title, "author": "A", "year": 2024,
		}, "")
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := do(t, srv, http.MethodGet, "/stats/titles", nil, "")
	require.Equal(t, http.StatusOK, status)

	var stats struct {
		TitleLengths    map[string]int `json:"title_lengths"`
		MostCommonWords []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"most_common_words"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 9, stats.TitleLengths["1"])
	require.NotEmpty(t, stats.MostCommonWords)
	assert.Equal(t, "go", stats.MostCommonWords[0].Word)
	assert.Equal(t, 2, stats.MostCommonWords[0].Count)
}
