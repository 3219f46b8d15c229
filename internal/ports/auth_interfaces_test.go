package ports_test

import (
	"testing"

	"github.com/target/annotator-store/internal/mocks"
	authmocks "github.com/target/annotator-store/internal/mocks/auth"
	"github.com/target/annotator-store/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*authmocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*authmocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = (*authmocks.StaticRoleMapper)(nil)
	var _ ports.SiteRepository = (*mocks.MockSiteRepository)(nil)
	var _ ports.SiteCache = (*mocks.MockSiteCache)(nil)
}
