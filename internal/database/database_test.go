package database_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopes(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	other := testutil.CreateTestOrg(t, tc.DB, tc.User)
	mine := testutil.CreateTestClient(t, tc.DB, tc.Org.ID, "Mine")
	theirs := testutil.CreateTestClient(t, tc.DB, other.ID, "Theirs")

	t.Run("InOrg", func(t *testing.T) {
		var rows []models.Client
		require.NoError(t, tc.DB.Scopes(database.InOrg(tc.Org.ID)).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, mine.ID, rows[0].ID)
	})

	t.Run("InOrgAndID rejects foreign ids", func(t *testing.T) {
		var count int64
		require.NoError(t, tc.DB.Model(&models.Client{}).Scopes(database.InOrgAndID(tc.Org.ID, theirs.ID)).Count(&count).Error)
		assert.Zero(t, count)

		require.NoError(t, tc.DB.Model(&models.Client{}).Scopes(database.InOrgAndID(other.ID, theirs.ID)).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("InOrg with nil org matches nothing", func(t *testing.T) {
		var count int64
		require.NoError(t, tc.DB.Model(&models.Client{}).Scopes(database.InOrg(uuid.Nil)).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestPaginate(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	for i := 0; i < 5; i++ {
		testutil.CreateTestClient(t, tc.DB, tc.Org.ID, fmt.Sprintf("c%d", i))
	}

	tests := []struct {
		page, perPage int
		want          []string
	}{
		{1, 2, []string{"c0", "c1"}},
		{3, 2, []string{"c4"}},
		{4, 2, nil},
		{0, 2, []string{"c0", "c1"}},
		{-1, 0, []string{"c0", "c1", "c2", "c3", "c4"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d,per_page=%d", tt.page, tt.perPage), func(t *testing.T) {
			var rows []models.Client
			require.NoError(t, tc.DB.Order("name ASC").Scopes(database.Paginate(tt.page, tt.perPage)).Find(&rows).Error)

			var names []string
			for _, r := range rows {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	assert.NoError(t, database.AutoMigrate(db))
}
