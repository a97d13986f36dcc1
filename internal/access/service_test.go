package access_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/access"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IsMember(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()

	svc := access.NewService(ts.DB)
	ctx := testutil.TestContext(t)

	member, _ := ts.NewMember(t, models.RoleMember)
	outsider, _ := ts.NewOutsider(t)
	otherOrg := testutil.CreateTestOrg(t, ts.DB, outsider)

	tests := []struct {
		name   string
		orgID  uuid.UUID
		userID uuid.UUID
		want   bool
	}{
		{"admin of org", ts.Org.ID, ts.User.ID, true},
		{"member of org", ts.Org.ID, member.ID, true},
		{"member of another org", ts.Org.ID, outsider.ID, false},
		{"pair is exact", otherOrg.ID, member.ID, false},
		{"nil user", ts.Org.ID, uuid.Nil, false},
		{"unknown org", uuid.New(), ts.User.ID, false},
		{"unknown user", ts.Org.ID, uuid.New(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsMember(ctx, tt.orgID, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_HasRole(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()

	svc := access.NewService(ts.DB)
	ctx := testutil.TestContext(t)

	manager, _ := ts.NewMember(t, models.RoleManager)
	member, _ := ts.NewMember(t, models.RoleMember)
	outsider, _ := ts.NewOutsider(t)

	users := map[string]uuid.UUID{
		"admin":    ts.User.ID,
		"manager":  manager.ID,
		"member":   member.ID,
		"outsider": outsider.ID,
	}

	tests := []struct {
		name string
		req  access.Requirement
		want map[string]bool
	}{
		{
			name: "at least manager",
			req:  access.AtLeast(models.RoleManager),
			want: map[string]bool{"admin": true, "manager": true, "member": false, "outsider": false},
		},
		{
			name: "any member",
			req:  access.AnyMember,
			want: map[string]bool{"admin": true, "manager": true, "member": true, "outsider": false},
		},
		{
			name: "admin allow-set",
			req:  access.OneOf(models.RoleAdmin),
			want: map[string]bool{"admin": true, "manager": false, "member": false, "outsider": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for who, id := range users {
				got, err := svc.HasRole(ctx, ts.Org.ID, id, tt.req)
				require.NoError(t, err)
				assert.Equal(t, tt.want[who], got, who)
			}
		})
	}

	ok, err := svc.HasRole(ctx, ts.Org.ID, uuid.Nil, access.AnyMember)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Authorize_MembershipBeforeRole(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()

	svc := access.NewService(ts.DB)
	ctx := testutil.TestContext(t)

	member, _ := ts.NewMember(t, models.RoleMember)
	outsider, _ := ts.NewOutsider(t)
	adminOnly := access.OneOf(models.RoleAdmin)

	_, err := svc.Authorize(ctx, ts.Org.ID, outsider.ID, adminOnly)
	assert.True(t, errors.Is(err, apperr.ErrNotMember))

	_, err = svc.Authorize(ctx, uuid.New(), ts.User.ID, adminOnly)
	assert.True(t, errors.Is(err, apperr.ErrNotMember))

	role, err := svc.Authorize(ctx, ts.Org.ID, member.ID, adminOnly)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientRole))
	assert.Equal(t, models.RoleMember, role)

	role, err = svc.Authorize(ctx, ts.Org.ID, ts.User.ID, adminOnly)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestService_ReadsCommittedState(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()

	svc := access.NewService(ts.DB)
	ctx := testutil.TestContext(t)

	member, _ := ts.NewMember(t, models.RoleMember)

	ok, err := svc.HasRole(ctx, ts.Org.ID, member.ID, access.AtLeast(models.RoleManager))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ts.DB.Model(&models.Membership{}).
		Where("organization_id = ? AND user_id = ?", ts.Org.ID, member.ID).
		Update("role", models.RoleManager).Error)

	ok, err = svc.HasRole(ctx, ts.Org.ID, member.ID, access.AtLeast(models.RoleManager))
	require.NoError(t, err)
	assert.True(t, ok)
}
