package auth_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// waitForNextSecond sleeps just past the next whole second.
func waitForNextSecond() {
	time.Sleep(time.Until(time.Now().Truncate(time.Second).Add(time.Second + 100*time.Millisecond)))
}

// TestMalformedCredentials sends hand-built Authorization headers.
func TestMalformedCredentials(t *testing.T) {
	env := setupAuthContainer(t, nil)
	env.seedUsers(t)

	session := env.login(t, editorUsername, editorPassword)
	token := session.Tokens().Token

	// Flip one character in the middle of the payload.
	mid := len(token) / 2
	flipped := byte('A')
	if token[mid] == 'A' {
		flipped = 'B'
	}
	tampered := token[:mid] + string(flipped) + token[mid+1:]

	tests := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"lowercase scheme", "bearer " + token},
		{"two spaces", "Bearer  " + token},
		{"trailing garbage", "Bearer " + token + " extra"},
		{"tampered token", "Bearer " + tampered},
		{"not a jwt", "Bearer " + strings.Repeat("x", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, env.BaseURL+"/v1/auth/me", nil)
			require.NoError(t, err)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
		})
	}
}
