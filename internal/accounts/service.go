// Package accounts removes user accounts together with the references other
// rows hold to them.
package accounts

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database/models"
	"gorm.io/gorm"
)

var ErrUserNotFound = apperr.NotFound("User not found")

type Service struct {
	db     *gorm.DB
	bugs   *bugs.Service
	logger *slog.Logger
}

func NewService(db *gorm.DB, bugService *bugs.Service, logger *slog.Logger) *Service {
	return &Service{db: db, bugs: bugService, logger: logger}
}

// DeleteAccount clears every assignment held by userID and then removes the
// user row. Both steps share one transaction: if the delete fails the
// assignments are restored and a deletion error is returned.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	var unassigned int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return apperr.Storage("loading user", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}

		n, err := s.bugs.WithTx(tx).UnassignAll(ctx, userID)
		if err != nil {
			return err
		}
		unassigned = n

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return apperr.Deletion("Failed to delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.Deletion("Failed to delete user", gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("account deletion failed", "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("account deleted", "user_id", userID, "unassigned_bugs", unassigned)
	return nil
}
