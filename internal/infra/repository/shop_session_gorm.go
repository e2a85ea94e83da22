package repository

import (
	"context"
	"errors"
	"strings"

	"ordersync/internal/domain/model"
	repo "ordersync/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shopSessionGormRepository struct {
	db *gorm.DB
}

func NewShopSessionGormRepository(db *gorm.DB) repo.ShopSessionRepository {
	return &shopSessionGormRepository{db: db}
}

func (r *shopSessionGormRepository) FindActiveByShop(ctx context.Context, shop string) (model.ShopSession, error) {
	var s model.ShopSession
	err := r.db.WithContext(ctx).
		Where("shop = ? AND is_active = ?", normalizeShop(shop), true).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShopSession{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShopSession{}, repo.NewStorageError("find session", err)
	}
	return s, nil
}

func (r *shopSessionGormRepository) Save(ctx context.Context, s model.ShopSession) error {
	s.Shop = normalizeShop(s.Shop)
	if s.Shop == "" {
		return repo.ErrValidation
	}
	s.IsActive = true

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "is_active", "updated_at"}),
	}).Create(&s).Error
	return repo.NewStorageError("save session", err)
}

func (r *shopSessionGormRepository) Deactivate(ctx context.Context, shop string) error {
	res := r.db.WithContext(ctx).Model(&model.ShopSession{}).
		Where("shop = ?", normalizeShop(shop)).
		Update("is_active", false)
	if res.Error != nil {
		return repo.NewStorageError("deactivate session", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ショップドメインは小文字で比較する
func normalizeShop(shop string) string {
	return strings.ToLower(strings.TrimSpace(shop))
}
