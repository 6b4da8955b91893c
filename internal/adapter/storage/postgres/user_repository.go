package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

// UserRepository stores login accounts. E-mails are compared case-insensitively.
type UserRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserRepository(db *gorm.DB, log *zap.Logger) ports.UserRepository {
	return &UserRepository{db: db, log: log}
}

// Save upserts the account by primary key.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	defer observe(time.Now())
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.log.Error("Failed to save user", zap.String("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return findOne[domain.User](r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](r.db.WithContext(ctx), "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}
