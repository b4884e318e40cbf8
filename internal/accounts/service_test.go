package accounts_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/accounts"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database/models"
	"github.com/hugh/bugtracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) (*accounts.Service, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	return accounts.NewService(tc.DB, bugs.NewService(tc.DB, tc.Logger), tc.Logger), tc
}

func userExists(t *testing.T, db *gorm.DB, id uuid.UUID) bool {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error)
	return count > 0
}

func TestService_DeleteAccount(t *testing.T) {
	t.Run("unassigns bugs then removes user", func(t *testing.T) {
		svc, tc := newAccountService(t)
		defer tc.Cleanup()

		bug := testutil.CreateTestBug(t, tc.DB, tc.Team.ID, tc.User, models.PriorityHigh, models.StatusInProgress)

		require.NoError(t, svc.DeleteAccount(testutil.TestContext(t), tc.User.ID))

		stored := testutil.ReloadBug(t, tc.DB, bug.ID)
		assert.Nil(t, stored.AssigneeID)
		assert.Equal(t, bug.Title, stored.Title)
		assert.Equal(t, models.PriorityHigh, stored.Priority)
		assert.Equal(t, models.StatusInProgress, stored.Status)
		assert.Equal(t, tc.Team.ID, stored.TeamID)
		assert.False(t, userExists(t, tc.DB, tc.User.ID))
	})

	t.Run("user with no bugs", func(t *testing.T) {
		svc, tc := newAccountService(t)
		defer tc.Cleanup()

		newbie := testutil.CreateTestUser(t, tc.DB, nil)
		require.NoError(t, svc.DeleteAccount(testutil.TestContext(t), newbie.ID))
		assert.False(t, userExists(t, tc.DB, newbie.ID))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, tc := newAccountService(t)
		defer tc.Cleanup()

		err := svc.DeleteAccount(testutil.TestContext(t), uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("failed delete rolls back unassign", func(t *testing.T) {
		svc, tc := newAccountService(t)
		defer tc.Cleanup()

		bug := testutil.CreateTestBug(t, tc.DB, tc.Team.ID, tc.User, models.PriorityLow, models.StatusOpen)

		require.NoError(t, tc.DB.Callback().Delete().Before("gorm:delete").Register("test:fail_user_delete", func(db *gorm.DB) {
			if db.Statement.Table == "users" {
				_ = db.AddError(errors.New("disk full"))
			}
		}))

		err := svc.DeleteAccount(testutil.TestContext(t), tc.User.ID)
		assert.ErrorIs(t, err, apperr.ErrDeletion)

		assert.True(t, userExists(t, tc.DB, tc.User.ID))
		stored := testutil.ReloadBug(t, tc.DB, bug.ID)
		require.NotNil(t, stored.AssigneeID)
		assert.Equal(t, tc.User.ID, *stored.AssigneeID)
	})
}

func TestUserDeleteNeedsUnassignFirst(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	testutil.CreateTestBug(t, tc.DB, tc.Team.ID, tc.User, models.PriorityLow, models.StatusOpen)

	err := tc.DB.Where("id = ?", tc.User.ID).Delete(&models.User{}).Error
	assert.Error(t, err, "foreign key should block deleting an assignee")
}
