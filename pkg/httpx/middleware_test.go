package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
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

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequireRole(t *testing.T) {
	gate := httpx.RequireRole("superadmin", "admin")(okHandler())

	tests := []struct {
		name     string
		userID   string
		role     string
		wantCode int
	}{
		{"admin allowed", "1", "admin", http.StatusOK},
		{"superadmin allowed", "1", "superadmin", http.StatusOK},
		{"editor forbidden", "2", "editor", http.StatusForbidden},
		{"empty role forbidden", "3", "", http.StatusForbidden},
		{"unauthenticated", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req = req.WithContext(httpx.WithIdentity(req.Context(), tt.userID, tt.role))
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				require.JSONEq(t, `{"success":false,"message":"You do not have permission to perform this action"}`, rec.Body.String())
			}
		})
	}
}

func TestWriteBearerError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteBearerError(rec, "Invalid or expired token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `Bearer error="invalid_token"`)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":false,"message":"Invalid or expired token"}`, rec.Body.String())
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteSuccess(rec, http.StatusOK, "ok", map[string]string{"token": "t"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"message":"ok","data":{"token":"t"}}`, rec.Body.String())
}
