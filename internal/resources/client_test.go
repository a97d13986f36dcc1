package resources_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/resources"
	"github.com/hugh/workops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClientService_Create(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	tests := []struct {
		name     string
		in       resources.ClientInput
		wantKind apperr.Kind
	}{
		{"valid", resources.ClientInput{Name: "  Globex  ", Email: strPtr(" ops@globex.com "), Phone: strPtr("555-0100")}, 0},
		{"missing name", resources.ClientInput{Name: "   "}, apperr.KindValidation},
		{"name too long", resources.ClientInput{Name: strings.Repeat("g", 201)}, apperr.KindValidation},
		{"bad email", resources.ClientInput{Name: "Initech", Email: strPtr("nope")}, apperr.KindValidation},
		{"phone too long", resources.ClientInput{Name: "Initech", Phone: strPtr(strings.Repeat("5", 51))}, apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Create(ctx, setup.User.ID, setup.Org.ID, tt.in)
			if tt.wantKind != 0 {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Globex", c.Name)
			require.NotNil(t, c.Email)
			assert.Equal(t, "ops@globex.com", *c.Email)
		})
	}
}

func TestClientService_ContactDetailsEncryptedAtRest(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	c, err := svc.Create(ctx, setup.User.ID, setup.Org.ID, resources.ClientInput{
		Name:  "Umbrella",
		Email: strPtr("hq@umbrella.example"),
	})
	require.NoError(t, err)

	var row models.Client
	require.NoError(t, setup.DB.First(&row, "id = ?", c.ID).Error)
	require.NotNil(t, row.EmailCipher)
	assert.NotContains(t, *row.EmailCipher, "umbrella")
	assert.Nil(t, row.PhoneCipher)

	got, err := svc.Get(ctx, setup.Org.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hq@umbrella.example", *got.Email)
}

func TestClientService_NameUniquePerOrg(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	_, err := svc.Create(ctx, setup.User.ID, setup.Org.ID, resources.ClientInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, setup.User.ID, setup.Org.ID, resources.ClientInput{Name: " Acme "})
	assert.ErrorIs(t, err, apperr.Conflict("A client with this name already exists in this organization."))

	other, _ := setup.NewOutsider(t)
	otherOrg := testutil.CreateTestOrg(t, setup.DB, other)
	_, err = svc.Create(ctx, other.ID, otherOrg.ID, resources.ClientInput{Name: "Acme"})
	assert.NoError(t, err, "same name in another organization is allowed")

	second, err := svc.Create(ctx, setup.User.ID, setup.Org.ID, resources.ClientInput{Name: "Beta"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, setup.User.ID, setup.Org.ID, second.ID, resources.ClientInput{Name: "Acme"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Update(ctx, setup.User.ID, setup.Org.ID, second.ID, resources.ClientInput{Name: "Beta", Phone: strPtr("1")})
	assert.NoError(t, err, "keeping its own name is not a conflict")
}

func TestClientService_OrgIsolation(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	other, _ := setup.NewOutsider(t)
	otherOrg := testutil.CreateTestOrg(t, setup.DB, other)
	foreign := testutil.CreateTestClient(t, setup.DB, otherOrg.ID, "Foreign")

	_, err := svc.Get(ctx, setup.Org.ID, foreign.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Update(ctx, setup.User.ID, setup.Org.ID, foreign.ID, resources.ClientInput{Name: "Hijacked"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.Delete(ctx, setup.User.ID, setup.Org.ID, foreign.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	list, total, err := svc.List(ctx, setup.Org.ID, resources.ClientFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestClientService_Update_ScopedWrite(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	client, err := svc.Create(ctx, setup.User.ID, setup.Org.ID, resources.ClientInput{Name: "Acme"})
	require.NoError(t, err)

	t.Run("update filters on org", func(t *testing.T) {
		var statements []string
		afterUpdate(t, setup.DB, "clients", func(tx *gorm.DB) {
			statements = append(statements, tx.Statement.SQL.String())
		})

		_, err := svc.Update(ctx, setup.User.ID, setup.Org.ID, client.ID, resources.ClientInput{Name: "Acme Ltd"})
		require.NoError(t, err)
		require.Len(t, statements, 1)
		assert.Contains(t, statements[0], "organization_id")
	})

	t.Run("row leaving the org before the write is not found", func(t *testing.T) {
		other, _ := setup.NewOutsider(t)
		otherOrg := testutil.CreateTestOrg(t, setup.DB, other)

		beforeUpdate(t, setup.DB, "clients", func(tx *gorm.DB) {
			assert.NoError(t, tx.Exec("UPDATE clients SET organization_id = ? WHERE id = ?", otherOrg.ID, client.ID).Error)
		})

		_, err := svc.Update(ctx, setup.User.ID, setup.Org.ID, client.ID, resources.ClientInput{Name: "Moved"})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		current, err := svc.Get(ctx, setup.Org.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", current.Name)
	})
}

func TestClientService_ListSearch(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	for _, name := range []string{"Alpha Labs", "Beta Works", "alphabet soup", "100% Juice"} {
		testutil.CreateTestClient(t, setup.DB, setup.Org.ID, name)
	}

	list, total, err := svc.List(ctx, setup.Org.ID, resources.ClientFilter{Query: "ALPHA", Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	_, total, err = svc.List(ctx, setup.Org.ID, resources.ClientFilter{Query: "%", Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "wildcards are matched literally")

	list, total, err = svc.List(ctx, setup.Org.ID, resources.ClientFilter{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 1)
}

func TestClientService_DeleteDetachesProjects(t *testing.T) {
	setup := testutil.NewTestContext(t)
	defer setup.Cleanup()

	svc := newServices(t, setup).clients
	ctx := testutil.TestContext(t)

	client := testutil.CreateTestClient(t, setup.DB, setup.Org.ID, "Soon Gone")
	project := testutil.CreateTestProject(t, setup.DB, setup.Org.ID, setup.User.ID, "Kept")
	require.NoError(t, setup.DB.Model(project).Update("client_id", client.ID).Error)

	require.NoError(t, svc.Delete(ctx, setup.User.ID, setup.Org.ID, client.ID))

	var reloaded models.Project
	require.NoError(t, setup.DB.First(&reloaded, "id = ?", project.ID).Error)
	assert.Nil(t, reloaded.ClientID)

	err := svc.Delete(ctx, setup.User.ID, setup.Org.ID, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
