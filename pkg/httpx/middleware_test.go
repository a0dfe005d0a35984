package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		got, ok := httpx.BearerToken(req)
		require.Equal(t, want, got, "header %q", header)
		require.Equal(t, want != "", ok)
	}
}

func TestAuthnAndRequire(t *testing.T) {
	authn := httpx.AuthenticatorFunc(func(_ context.Context, token string) (httpx.Principal, error) {
		switch token {
		case "admin-token":
			return httpx.Principal{UserID: "a1", Role: "admin"}, nil
		case "member-token":
			return httpx.Principal{UserID: "m1", Role: "homeowner"}, nil
		default:
			return httpx.Principal{}, errors.New("bad token")
		}
	})

	var seen httpx.Principal
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}),
		httpx.AuthnMiddleware(authn),
		httpx.Require(func(p httpx.Principal) bool { return p.Role == "admin" }),
	)

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return serve(h, req)
	}

	rec := call("")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	rec = call("forged")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, httpx.ErrorCodeUnauthenticated, body.Error)

	rec = call("member-token")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, httpx.ErrorCodeForbidden, body.Error)

	rec = call("admin-token")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, httpx.Principal{UserID: "a1", Role: "admin"}, seen)
}

func TestDecodeJSON(t *testing.T) {
	decode := func(ct, body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		var v map[string]any
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &v)
	}

	require.NoError(t, decode("application/json", `{"a":1}`))
	require.NoError(t, decode("application/json; charset=utf-8", `{"a":1}`))
	require.NoError(t, decode("", `{"a":1}`))
	require.ErrorIs(t, decode("text/plain", `{"a":1}`), httpx.ErrBadJSON)
	require.ErrorIs(t, decode("application/json", `{"a":`), httpx.ErrBadJSON)
	require.ErrorIs(t, decode("application/json", `{"a":1}{"b":2}`), httpx.ErrBadJSON)
}

func TestCORS(t *testing.T) {
	h := httpx.CORS("https://hoa.example.com")(okHandler)

	pre := httptest.NewRequest(http.MethodOptions, "/v1/payments", nil)
	pre.Header.Set("Origin", "https://hoa.example.com")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	rec := serve(h, pre)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://hoa.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/v1/payments", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	rec = serve(h, other)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := httpx.NewHTTPMetrics(reg, "portal")

	mux := http.NewServeMux()
	mux.Handle("GET /v1/payments/{id}", okHandler)
	h := m.Middleware()(mux)

	serve(h, httptest.NewRequest(http.MethodGet, "/v1/payments/abc", nil))
	serve(h, httptest.NewRequest(http.MethodGet, "/v1/payments/def", nil))

	n, err := testutil.GatherAndCount(reg, "portal_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, n, "both requests share one route series")
}
