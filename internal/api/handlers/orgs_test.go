package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgHandler_CreateAndList(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	rr := do(t, router, http.MethodPost, "/api/v1/orgs", map[string]string{"name": "Second Org"}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var created dto.OrgResponse
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, "Second Org", created.Name)
	assert.Equal(t, "admin", created.Role)

	rr = do(t, router, http.MethodPost, "/api/v1/orgs", map[string]string{"name": ""}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	_, outsiderToken := tc.NewOutsider(t)
	rr = do(t, router, http.MethodGet, "/api/v1/orgs", nil, outsiderToken)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var none []dto.OrgResponse
	testutil.ParseJSONResponse(t, rr, &none)
	assert.Empty(t, none)

	rr = do(t, router, http.MethodGet, "/api/v1/orgs", nil, tc.Token)
	var mine []dto.OrgResponse
	testutil.ParseJSONResponse(t, rr, &mine)
	require.Len(t, mine, 2)
	assert.Equal(t, created.ID, mine[0].ID, "newest first")
}

func TestOrgHandler_NonMemberSeesNotFound(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	_, outsiderToken := tc.NewOutsider(t)
	project := testutil.CreateTestProject(t, tc.DB, tc.Org.ID, tc.User.ID, "Hidden")
	client := testutil.CreateTestClient(t, tc.DB, tc.Org.ID, "Hidden Client")

	realOrg := "/api/v1/orgs/" + tc.Org.ID.String()
	fakeOrg := "/api/v1/orgs/" + uuid.NewString()

	paths := []string{
		realOrg,
		fakeOrg,
		realOrg + "/projects",
		realOrg + "/projects/" + project.ID.String(),
		realOrg + "/projects/" + uuid.NewString(),
		realOrg + "/clients/" + client.ID.String(),
		realOrg + "/projects/" + project.ID.String() + "/tasks",
		fakeOrg + "/projects",
	}

	var bodies []string
	for _, path := range paths {
		rr := do(t, router, http.MethodGet, path, nil, outsiderToken)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
		assert.NotContains(t, rr.Body.String(), tc.Org.ID.String())
		bodies = append(bodies, rr.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}

	rr := do(t, router, http.MethodPost, realOrg+"/projects", map[string]string{"name": "X"}, outsiderToken)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestOrgHandler_Rename(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	_, managerToken := tc.NewMember(t, models.RoleManager)
	path := "/api/v1/orgs/" + tc.Org.ID.String()

	rr := do(t, router, http.MethodPatch, path, map[string]string{"name": "Renamed"}, managerToken)
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = do(t, router, http.MethodPatch, path, map[string]string{"name": "Renamed"}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = do(t, router, http.MethodGet, path, nil, managerToken)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var org dto.OrgResponse
	testutil.ParseJSONResponse(t, rr, &org)
	assert.Equal(t, "Renamed", org.Name)
	assert.Equal(t, "manager", org.Role)
}

func TestOrgHandler_Members(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	base := "/api/v1/orgs/" + tc.Org.ID.String() + "/members"
	_, managerToken := tc.NewMember(t, models.RoleManager)
	_, memberToken := tc.NewMember(t, models.RoleMember)
	newcomer := testutil.CreateTestUser(t, tc.DB)

	t.Run("list requires manager", func(t *testing.T) {
		testutil.AssertStatus(t, do(t, router, http.MethodGet, base, nil, memberToken), http.StatusForbidden)

		rr := do(t, router, http.MethodGet, base, nil, managerToken)
		testutil.AssertStatus(t, rr, http.StatusOK)
		var members []dto.MemberResponse
		testutil.ParseJSONResponse(t, rr, &members)
		require.Len(t, members, 3)
		assert.Equal(t, tc.User.ID.String(), members[0].UserID, "ordered by join time")
	})

	t.Run("add requires admin", func(t *testing.T) {
		body := map[string]string{"email": newcomer.Email, "role": "member"}
		testutil.AssertStatus(t, do(t, router, http.MethodPost, base, body, managerToken), http.StatusForbidden)

		rr := do(t, router, http.MethodPost, base, body, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		var m dto.MemberResponse
		testutil.ParseJSONResponse(t, rr, &m)
		assert.Equal(t, newcomer.ID.String(), m.UserID)
		assert.Equal(t, "member", m.Role)
	})

	t.Run("add rejects duplicates, unknown emails and bad roles", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, base, map[string]string{"email": newcomer.Email, "role": "member"}, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusConflict)

		rr = do(t, router, http.MethodPost, base, map[string]string{"email": "ghost@example.com", "role": "member"}, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		rr = do(t, router, http.MethodPost, base, map[string]string{"email": newcomer.Email, "role": "owner"}, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Contains(t, problem(t, rr).Errors, "role")
	})

	t.Run("change role", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, base+"/"+newcomer.ID.String(), map[string]string{"role": "manager"}, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusOK)
		var m dto.MemberResponse
		testutil.ParseJSONResponse(t, rr, &m)
		assert.Equal(t, "manager", m.Role)
	})

	t.Run("remove", func(t *testing.T) {
		rr := do(t, router, http.MethodDelete, base+"/"+newcomer.ID.String(), nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = do(t, router, http.MethodDelete, base+"/"+newcomer.ID.String(), nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		rr = do(t, router, http.MethodDelete, base+"/not-a-uuid", nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestOrgHandler_LastAdmin(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	base := "/api/v1/orgs/" + tc.Org.ID.String() + "/members/" + tc.User.ID.String()

	rr := do(t, router, http.MethodDelete, base, nil, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusConflict)
	assert.Equal(t, "Cannot remove the last admin.", problem(t, rr).Detail)

	rr = do(t, router, http.MethodPatch, base, map[string]string{"role": "member"}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusConflict)
	assert.Equal(t, "Cannot demote the last admin.", problem(t, rr).Detail)

	tc.NewMember(t, models.RoleAdmin)

	rr = do(t, router, http.MethodDelete, base, nil, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	var count int64
	require.NoError(t, tc.DB.Model(&models.Membership{}).
		Where("organization_id = ? AND role = ?", tc.Org.ID, models.RoleAdmin).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
