package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
)

// MockPluginStore records mutating calls through testify and keeps the
// installed set in memory so presence checks reflect earlier installs.
type MockPluginStore struct {
	mock.Mock
	root string

	mu        sync.Mutex
	installed map[plugindomain.Identity]bool
}

func NewMockPluginStore(root string, preinstalled ...plugindomain.Identity) *MockPluginStore {
	m := &MockPluginStore{root: root, installed: make(map[plugindomain.Identity]bool)}
	for _, id := range preinstalled {
		m.installed[id] = true
	}
	return m
}

func (m *MockPluginStore) EnsureRoot() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPluginStore) Dir(id plugindomain.Identity) string {
	return filepath.Join(m.root, id.Owner, id.Name)
}

func (m *MockPluginStore) IsInstalled(id plugindomain.Identity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed[id]
}

func (m *MockPluginStore) Install(ctx context.Context, source plugindomain.Source, id plugindomain.Identity) error {
	args := m.Called(ctx, source, id)
	if err := args.Error(0); err != nil {
		return err
	}

	m.mu.Lock()
	m.installed[id] = true
	m.mu.Unlock()
	return nil
}

func (m *MockPluginStore) Installed() ([]plugindomain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]plugindomain.Identity, 0, len(m.installed))
	for id := range m.installed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (m *MockPluginStore) Remove(id plugindomain.Identity) error {
	args := m.Called(id)
	if err := args.Error(0); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.installed, id)
	m.mu.Unlock()
	return nil
}

type MockShellNotifier struct {
	mock.Mock
}

func (m *MockShellNotifier) Notify(ctx context.Context, kind shelldomain.Kind) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rc.json"), []byte(content), 0o644))
}

func ident(owner, name string) plugindomain.Identity {
	return plugindomain.Identity{Owner: owner, Name: name}
}
