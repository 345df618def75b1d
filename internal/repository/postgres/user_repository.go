package postgres

import (
	"context"
	"errors"
	"fmt"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

var _ recommendation.ProfileRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, recommendation.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user %d: %w", id, err)
	}

	return user, nil
}

// FindByIDs skips ids that do not exist.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	var users []domain.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) FindEducators(ctx context.Context) ([]domain.User, error) {
	var users []domain.User

	err := r.DB.WithContext(ctx).
		Where("is_educator = ?", true).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list educators: %w", err)
	}

	return users, nil
}
