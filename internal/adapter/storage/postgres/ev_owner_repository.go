package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

type EVOwnerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewEVOwnerRepository(db *gorm.DB, log *zap.Logger) ports.EVOwnerRepository {
	return &EVOwnerRepository{
		db:  db,
		log: log,
	}
}

func (r *EVOwnerRepository) Register(ctx context.Context, user *domain.User, owner *domain.EVOwner) error {
	defer observe(time.Now())
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("insert ev owner: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to register EV owner", zap.String("nic", owner.NIC), zap.Error(err))
	}
	return err
}

func (r *EVOwnerRepository) FindByNIC(ctx context.Context, nic string) (*domain.EVOwner, error) {
	return r.first(ctx, "nic = ?", nic)
}

func (r *EVOwnerRepository) FindByUserID(ctx context.Context, userID string) (*domain.EVOwner, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *EVOwnerRepository) first(ctx context.Context, query string, arg interface{}) (*domain.EVOwner, error) {
	return findOne[domain.EVOwner](r.db.WithContext(ctx), query, arg)
}

// UpdateFields patches the owner row. A changed e-mail is mirrored onto the login account.
func (r *EVOwnerRepository) UpdateFields(ctx context.Context, nic string, fields map[string]interface{}) error {
	defer observe(time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.EVOwner{}).Where("nic = ?", nic).Updates(fields).Error; err != nil {
			return err
		}
		email, ok := fields["email"]
		if !ok {
			return nil
		}
		return tx.Model(&domain.User{}).
			Where("id = (?)", tx.Model(&domain.EVOwner{}).Select("user_id").Where("nic = ?", nic)).
			Updates(map[string]interface{}{"email": email, "updated_at": time.Now().UTC()}).Error
	})
}

func (r *EVOwnerRepository) SetActive(ctx context.Context, nic string, active bool) error {
	defer observe(time.Now())
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner domain.EVOwner
		if err := tx.First(&owner, "nic = ?", nic).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.EVOwner{}).Where("nic = ?", nic).
			Updates(map[string]interface{}{"is_active": active, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", owner.UserID).
			Updates(map[string]interface{}{"is_active": active, "updated_at": now}).Error
	})
}
