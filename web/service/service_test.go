package service

import (
	"path/filepath"
	"testing"

	"github.com/solo-blog/console/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setup opens a fresh SQLite database holding only the seeded admin.
func setup(t *testing.T) *gorm.DB {
	t.Helper()
	require.NoError(t, database.InitSQLite(filepath.Join(t.TempDir(), "solo.db")))
	t.Cleanup(func() { _ = database.CloseDB() })
	return database.GetDB()
}

type services struct {
	query *UserQueryService
	mgmt  *UserMgmtService
	pref  *PreferenceQueryService
}

func newServices(t *testing.T) services {
	db := setup(t)
	pref := NewPreferenceQueryService(db)
	return services{
		query: NewUserQueryService(db),
		mgmt:  NewUserMgmtService(db, pref),
		pref:  pref,
	}
}
