package resources_test

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/resources"
	"github.com/hugh/workops/internal/testutil"
	"github.com/hugh/workops/pkg/crypto"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type services struct {
	clients  *resources.ClientService
	projects *resources.ProjectService
	tasks    *resources.TaskService
}

func newServices(t *testing.T, setup *testutil.TestSetup) services {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	enc, err := crypto.NewEncryptor("")
	require.NoError(t, err)

	rec := activity.Nop{}
	return services{
		clients:  resources.NewClientService(setup.DB, enc, rec, logger),
		projects: resources.NewProjectService(setup.DB, rec, logger),
		tasks:    resources.NewTaskService(setup.DB, rec, logger),
	}
}

func strPtr(s string) *string { return &s }

// beforeUpdate runs fn once, inside the caller's transaction, right before
// the next UPDATE on table is sent to the store.
func beforeUpdate(t *testing.T, db *gorm.DB, table string, fn func(tx *gorm.DB)) {
	t.Helper()

	var once sync.Once
	name := "test:before_update_" + table
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		once.Do(func() { fn(tx.Session(&gorm.Session{NewDB: true})) })
	}))
	t.Cleanup(func() { _ = db.Callback().Update().Remove(name) })
}

// afterUpdate runs fn after every UPDATE on table, still inside the
// caller's transaction.
func afterUpdate(t *testing.T, db *gorm.DB, table string, fn func(tx *gorm.DB)) {
	t.Helper()

	name := "test:after_update_" + table
	require.NoError(t, db.Callback().Update().After("gorm:update").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			fn(tx)
		}
	}))
	t.Cleanup(func() { _ = db.Callback().Update().Remove(name) })
}
