package auth_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRoleGate verifies the admin endpoints reject editors.
func TestRoleGate(t *testing.T) {
	env := setupAuthContainer(t, nil)
	env.seedUsers(t)
	ctx := t.Context()

	admin := env.login(t, adminUsername, adminPassword)
	roles, err := admin.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	editor := env.login(t, editorUsername, editorPassword)
	_, err = editor.ListRoles(ctx)
	require.True(t, authsdk.IsForbidden(err), "editor should get 403, got: %v", err)
}

// TestActivityLog verifies logins are recorded and visible to admins.
func TestActivityLog(t *testing.T) {
	env := setupAuthContainer(t, nil)
	env.seedUsers(t)
	ctx := t.Context()

	admin := env.login(t, adminUsername, adminPassword)
	editor := env.login(t, editorUsername, editorPassword)

	me, err := editor.Profile(ctx)
	require.NoError(t, err)

	// Activity is written in the background.
	require.Eventually(t, func() bool {
		entries, err := admin.ListActivity(ctx, me.ID, 10)
		return err == nil && len(entries) > 0 && entries[0].Action == "login"
	}, 5*time.Second, 100*time.Millisecond)
}
