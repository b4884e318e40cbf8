package teams_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database/models"
	"github.com/hugh/bugtracker/internal/teams"
	"github.com/hugh/bugtracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeamService(t *testing.T, opts ...teams.Option) (*teams.Service, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	return teams.NewService(tc.DB, bugs.NewService(tc.DB, tc.Logger), tc.Logger, opts...), tc
}

// sequence returns the given codes in order, then fails.
func sequence(codes ...string) teams.CodeGenerator {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", errors.New("sequence exhausted")
		}
		c := codes[i]
		i++
		return c, nil
	}
}

func TestService_CreateTeam(t *testing.T) {
	t.Run("moves creator into new team", func(t *testing.T) {
		svc, tc := newTeamService(t)
		defer tc.Cleanup()
		ctx := testutil.TestContext(t)

		newbie := testutil.CreateTestUser(t, tc.DB, nil)
		team, err := svc.CreateTeam(ctx, "QA", newbie.ID)
		require.NoError(t, err)
		assert.Equal(t, "QA", team.Name)
		assert.True(t, teams.IsWellFormedJoinCode(team.JoinCode))

		stored := testutil.ReloadUser(t, tc.DB, newbie.ID)
		require.NotNil(t, stored.TeamID)
		assert.Equal(t, team.ID, *stored.TeamID)
	})

	t.Run("redraws on collision", func(t *testing.T) {
		svc, tc := newTeamService(t, teams.WithCodeGenerator(sequence("AAAAAA", "ab12cd")))
		defer tc.Cleanup()
		ctx := testutil.TestContext(t)

		require.NoError(t, tc.DB.Model(&models.Team{}).Where("id = ?", tc.Team.ID).Update("join_code", "AAAAAA").Error)

		team, err := svc.CreateTeam(ctx, "QA", tc.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "AB12CD", team.JoinCode)
	})

	t.Run("generator failure", func(t *testing.T) {
		svc, tc := newTeamService(t, teams.WithCodeGenerator(sequence()))
		defer tc.Cleanup()

		_, err := svc.CreateTeam(testutil.TestContext(t), "QA", tc.User.ID)
		assert.Error(t, err)

		var count int64
		tc.DB.Model(&models.Team{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, tc := newTeamService(t)
		defer tc.Cleanup()

		_, err := svc.CreateTeam(testutil.TestContext(t), "   ", tc.User.ID)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown user creates nothing", func(t *testing.T) {
		svc, tc := newTeamService(t)
		defer tc.Cleanup()

		_, err := svc.CreateTeam(testutil.TestContext(t), "Ghost", uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		var count int64
		tc.DB.Model(&models.Team{}).Where("name = ?", "Ghost").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("releases assignments in previous team", func(t *testing.T) {
		svc, tc := newTeamService(t)
		defer tc.Cleanup()
		ctx := testutil.TestContext(t)

		bug := testutil.CreateTestBug(t, tc.DB, tc.Team.ID, tc.User, models.PriorityHigh, models.StatusOpen)

		_, err := svc.CreateTeam(ctx, "Elsewhere", tc.User.ID)
		require.NoError(t, err)
		assert.Nil(t, testutil.ReloadBug(t, tc.DB, bug.ID).AssigneeID)
	})
}

func TestService_JoinTeam(t *testing.T) {
	svc, tc := newTeamService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("code is case insensitive", func(t *testing.T) {
		newbie := testutil.CreateTestUser(t, tc.DB, nil)

		team, err := svc.JoinTeam(ctx, "  "+strings.ToLower(tc.Team.JoinCode)+" ", newbie.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.Team.ID, team.ID)

		stored := testutil.ReloadUser(t, tc.DB, newbie.ID)
		require.NotNil(t, stored.TeamID)
		assert.Equal(t, tc.Team.ID, *stored.TeamID)
	})

	t.Run("joining own team is a no-op", func(t *testing.T) {
		bug := testutil.CreateTestBug(t, tc.DB, tc.Team.ID, tc.User, models.PriorityLow, models.StatusOpen)

		team, err := svc.JoinTeam(ctx, tc.Team.JoinCode, tc.User.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.Team.ID, team.ID)
		assert.NotNil(t, testutil.ReloadBug(t, tc.DB, bug.ID).AssigneeID)
	})

	t.Run("unknown code leaves team unchanged", func(t *testing.T) {
		_, err := svc.JoinTeam(ctx, "ZZZZZZ", tc.User.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "Invalid Join Code", apperr.Message(err, ""))

		stored := testutil.ReloadUser(t, tc.DB, tc.User.ID)
		require.NotNil(t, stored.TeamID)
		assert.Equal(t, tc.Team.ID, *stored.TeamID)
	})

	t.Run("malformed code is invalid", func(t *testing.T) {
		_, err := svc.JoinTeam(ctx, "no!", tc.User.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := svc.JoinTeam(ctx, "", tc.User.ID)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("switching teams releases old assignments", func(t *testing.T) {
		mover := testutil.CreateTestUser(t, tc.DB, tc.Team)
		bug := testutil.CreateTestBug(t, tc.DB, tc.Team.ID, mover, models.PriorityLow, models.StatusOpen)
		other := testutil.CreateTestTeam(t, tc.DB, "Other")

		_, err := svc.JoinTeam(ctx, other.JoinCode, mover.ID)
		require.NoError(t, err)
		assert.Nil(t, testutil.ReloadBug(t, tc.DB, bug.ID).AssigneeID)
	})
}

func TestService_MembersAndCurrentTeam(t *testing.T) {
	svc, tc := newTeamService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	mate := testutil.CreateTestUser(t, tc.DB, tc.Team)
	newbie := testutil.CreateTestUser(t, tc.DB, nil)

	members, err := svc.Members(ctx, tc.Team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	ids := []uuid.UUID{members[0].ID, members[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{tc.User.ID, mate.ID}, ids)

	teamID, err := svc.CurrentTeam(ctx, tc.User.ID)
	require.NoError(t, err)
	assert.Equal(t, tc.Team.ID, teamID)

	teamID, err = svc.CurrentTeam(ctx, newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, teamID)

	_, err = svc.CurrentTeam(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
