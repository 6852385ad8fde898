package auth_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitTokenEndpoint verifies that login is rate limited per
// address and username (strict limit: 5 req/min).
func TestRateLimitTokenEndpoint(t *testing.T) {
	env := setupAuthContainerWithDefaultRateLimits(t)
	ctx := context.Background()

	for i := range 5 {
		_, err := env.Client.Login(ctx, "wronguser", "wrongpass")
		require.Error(t, err, "Invalid credentials should fail")
		require.False(t, authsdk.IsRateLimited(err), "Should not be rate limited yet (request %d)", i+1)
	}

	_, err := env.Client.Login(ctx, "wronguser", "wrongpass")
	require.True(t, authsdk.IsRateLimited(err), "Should be rate limited after 5 requests, got: %v", err)

	// Another username has its own budget.
	_, err = env.Client.Login(ctx, "otheruser", "wrongpass")
	require.False(t, authsdk.IsRateLimited(err))
}

// TestRateLimitHealthEndpoint verifies probes have a high public limit.
func TestRateLimitHealthEndpoint(t *testing.T) {
	env := setupAuthContainerWithDefaultRateLimits(t)
	ctx := context.Background()

	for range 50 {
		health, err := env.Client.GetLiveness(ctx)
		assertHealthy(t, health, err)
	}
}
