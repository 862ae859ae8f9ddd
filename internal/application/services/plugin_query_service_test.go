package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shco.dev/cli/internal/config"
	plugindomain "shco.dev/cli/internal/core/domain/plugin"
)

func newQueryFixture(t *testing.T, preinstalled ...plugindomain.Identity) (*PluginQueryService, *MockPluginStore, string) {
	t.Helper()
	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	store := NewMockPluginStore(filepath.Join(root, "plugins"), preinstalled...)
	return NewPluginQueryService(configDir, store, hclog.NewNullLogger()), store, configDir
}

func TestList_ReportsStatusInConfiguredOrder(t *testing.T) {
	service, store, configDir := newQueryFixture(t, ident("zsh-users", "zsh-autosuggestions"))
	writeConfig(t, configDir, `{"plugins": [
		"zsh-users/zsh-autosuggestions",
		"bad",
		"owner/missing",
		"https://github.com/zsh-users/zsh-autosuggestions.git"
	]}`)

	infos, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, StatusInstalled, infos[0].Status)
	assert.Equal(t, store.Dir(ident("zsh-users", "zsh-autosuggestions")), infos[0].Dir)

	assert.Equal(t, StatusInvalid, infos[1].Status)
	assert.ErrorIs(t, infos[1].Err, plugindomain.ErrInvalidSource)
	assert.Empty(t, infos[1].Dir)

	assert.Equal(t, StatusMissing, infos[2].Status)
	assert.Equal(t, ident("owner", "missing"), infos[2].Identity)

	assert.Equal(t, StatusDuplicate, infos[3].Status)
}

func TestList_MissingConfiguration(t *testing.T) {
	service, _, _ := newQueryFixture(t)

	_, err := service.List(context.Background())
	assert.ErrorIs(t, err, config.ErrConfigUnavailable)
}

func TestPrune_DryRunRemovesNothing(t *testing.T) {
	service, store, configDir := newQueryFixture(t, ident("a", "kept"), ident("b", "orphan"))
	writeConfig(t, configDir, `{"plugins": ["a/kept"]}`)

	orphans, err := service.Prune(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, []plugindomain.Identity{ident("b", "orphan")}, orphans)
	assert.True(t, store.IsInstalled(ident("b", "orphan")))
	store.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestPrune_RemovesUnconfiguredPlugins(t *testing.T) {
	service, store, configDir := newQueryFixture(t, ident("a", "kept"), ident("b", "orphan"), ident("c", "stale"))
	writeConfig(t, configDir, `{"plugins": ["a/kept", "not a source"]}`)
	store.On("Remove", mock.Anything).Return(nil)

	orphans, err := service.Prune(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []plugindomain.Identity{ident("b", "orphan"), ident("c", "stale")}, orphans)
	assert.True(t, store.IsInstalled(ident("a", "kept")))
	assert.False(t, store.IsInstalled(ident("b", "orphan")))
	assert.False(t, store.IsInstalled(ident("c", "stale")))
	store.AssertNumberOfCalls(t, "Remove", 2)
}

func TestPrune_StopsOnRemoveError(t *testing.T) {
	service, store, configDir := newQueryFixture(t, ident("b", "orphan"))
	writeConfig(t, configDir, `{"plugins": []}`)
	removeErr := errors.New("permission denied")
	store.On("Remove", ident("b", "orphan")).Return(removeErr)

	_, err := service.Prune(context.Background(), false)
	assert.ErrorIs(t, err, removeErr)
}

func TestPrune_RefusesWithoutConfiguration(t *testing.T) {
	service, store, _ := newQueryFixture(t, ident("b", "orphan"))

	_, err := service.Prune(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigUnavailable)
	assert.Contains(t, err.Error(), "refusing to prune")
	store.AssertNotCalled(t, "Remove", mock.Anything)
}
