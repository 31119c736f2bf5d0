package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booklibrary/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	const secret = "test-secret"

	var gotSubject string
	handler := RequireRole(secret, crypto.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	token := func(role string) string {
		tok, _, err := crypto.GenerateToken(secret, "librarian", role, time.Hour)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong role", "Bearer " + token("READER"), http.StatusForbidden},
		{"admin", "Bearer " + token(crypto.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			req := httptest.NewRequest(http.MethodPost, "/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "librarian", gotSubject)
			}
		})
	}
}
