package teams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database/models"
	"gorm.io/gorm"
)

// maxCodeAttempts bounds join code re-draws. With 36^6 codes a collision
// streak this long means the generator is broken, not unlucky.
const maxCodeAttempts = 32

const joinCodeSavepoint = "team_join_code"

// Service manages teams and the user-to-team membership edge.
type Service struct {
	db      *gorm.DB
	bugs    *bugs.Service
	logger  *slog.Logger
	newCode CodeGenerator
}

type Option func(*Service)

// WithCodeGenerator replaces the random join code source.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(db *gorm.DB, bugService *bugs.Service, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		db:      db,
		bugs:    bugService,
		logger:  logger,
		newCode: RandomJoinCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTeam persists a team with a fresh join code and moves the requesting
// user into it, in one transaction.
func (s *Service) CreateTeam(ctx context.Context, name string, userID uuid.UUID) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Team name is required")
	}

	var team models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, userID); err != nil {
			return err
		}

		created, err := s.insertWithUniqueCode(tx, name)
		if err != nil {
			return err
		}
		team = *created

		return s.moveUser(ctx, tx, userID, team.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created", "team_id", team.ID, "user_id", userID)
	return &team, nil
}

// JoinTeam moves the user into the team identified by code. Joining the
// team the user already belongs to succeeds without writing.
func (s *Service) JoinTeam(ctx context.Context, code string, userID uuid.UUID) (*models.Team, error) {
	code = NormalizeJoinCode(code)
	if code == "" {
		return nil, apperr.Validation("Join code is required")
	}
	if !IsWellFormedJoinCode(code) {
		return nil, apperr.InvalidJoinCode()
	}

	var team models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("join_code = ?", code).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.InvalidJoinCode()
			}
			return apperr.Storage("looking up join code", err)
		}

		user, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		if user.TeamID != nil && *user.TeamID == team.ID {
			return nil
		}

		return s.moveUser(ctx, tx, userID, team.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user joined team", "team_id", team.ID, "user_id", userID)
	return &team, nil
}

// Members lists the users whose team reference is teamID.
func (s *Service) Members(ctx context.Context, teamID uuid.UUID) ([]models.User, error) {
	members := make([]models.User, 0)
	if err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("username ASC").
		Find(&members).Error; err != nil {
		return nil, apperr.Storage("listing team members", err)
	}
	return members, nil
}

// CurrentTeam returns the caller's team id, or uuid.Nil while the caller is
// still onboarding. It always reads the Datastore, never token claims.
func (s *Service) CurrentTeam(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	user, err := loadUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return uuid.Nil, err
	}
	if !user.HasTeam() {
		return uuid.Nil, nil
	}
	return *user.TeamID, nil
}

func (s *Service) insertWithUniqueCode(tx *gorm.DB, name string) (*models.Team, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generating join code: %w", err)
		}
		code = NormalizeJoinCode(code)

		var taken int64
		if err := tx.Model(&models.Team{}).Where("join_code = ?", code).Count(&taken).Error; err != nil {
			return nil, apperr.Storage("checking join code", err)
		}
		if taken > 0 {
			s.logger.Debug("join code collision, redrawing", "attempt", attempt+1)
			continue
		}

		// A concurrent create can still claim the code between the check
		// and the insert; the savepoint keeps the transaction usable.
		if err := tx.SavePoint(joinCodeSavepoint).Error; err != nil {
			return nil, apperr.Storage("creating savepoint", err)
		}
		team := models.Team{Name: name, JoinCode: code}
		if err := tx.Create(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if rbErr := tx.RollbackTo(joinCodeSavepoint).Error; rbErr != nil {
					return nil, apperr.Storage("rolling back savepoint", rbErr)
				}
				continue
			}
			return nil, apperr.Storage("creating team", err)
		}
		return &team, nil
	}
	return nil, apperr.Storage("creating team", fmt.Errorf("no free join code after %d attempts", maxCodeAttempts))
}

// moveUser overwrites the user's team reference and releases any bugs of
// other teams still assigned to the user.
func (s *Service) moveUser(ctx context.Context, tx *gorm.DB, userID, teamID uuid.UUID) error {
	result := tx.Model(&models.User{}).Where("id = ?", userID).Update("team_id", teamID)
	if result.Error != nil {
		return apperr.Storage("updating team membership", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}

	released, err := s.bugs.WithTx(tx).UnassignOutsideTeam(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if released > 0 {
		s.logger.Info("released assignments from previous team", "user_id", userID, "count", released)
	}
	return nil
}

func loadUser(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("loading user", err)
	}
	return &user, nil
}
