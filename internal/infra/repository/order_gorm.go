package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"ordersync/internal/domain/model"
	repo "ordersync/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db, now: time.Now}
}

func (r *OrderGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, repo.NewStorageError("find order", err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, repo.NewStorageError("find order", err)
	}
	return o, nil
}

// Upsert は INSERT ... ON CONFLICT (order_id) DO UPDATE の1文で作成/更新する。
// 更新されるのはpatchで渡された列とupdated_atだけ（created_atは触らない）。
func (r *OrderGormRepository) Upsert(ctx context.Context, patch repo.OrderPatch) (model.Order, error) {
	orderID := strings.TrimSpace(patch.OrderID)
	if orderID == "" {
		return model.Order{}, repo.ErrValidation
	}

	now := r.now()
	row := model.Order{OrderID: orderID, CreatedAt: now, UpdatedAt: now}

	cols := make([]string, 0, 8)
	set := func(col string, dst *string, v *string) {
		if v == nil {
			return
		}
		*dst = *v
		cols = append(cols, col)
	}
	set("order_number", &row.OrderNumber, patch.OrderNumber)
	set("total_price", &row.TotalPrice, patch.TotalPrice)
	set("payment_gateway", &row.PaymentGateway, patch.PaymentGateway)
	set("customer_email", &row.CustomerEmail, patch.CustomerEmail)
	set("customer_full_name", &row.CustomerFullName, patch.CustomerFullName)
	set("customer_address", &row.CustomerAddress, patch.CustomerAddress)
	set("tags", &row.Tags, patch.Tags)
	cols = append(cols, "updated_at")

	var out model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).Create(&row).Error; err != nil {
			return err
		}
		//競合時はrow.IDが入らないDBもあるので読み直す
		return tx.Where("order_id = ?", orderID).First(&out).Error
	})
	if err != nil {
		return model.Order{}, repo.NewStorageError("upsert order", err)
	}
	return out, nil
}

func (r *OrderGormRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	items := []model.Order{}
	if err := r.db.WithContext(ctx).Order("id desc").Find(&items).Error; err != nil {
		return []model.Order{}, repo.NewStorageError("list orders", err)
	}
	return items, nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.Order{})
	if res.Error != nil {
		return false, repo.NewStorageError("delete order", res.Error)
	}
	return res.RowsAffected > 0, nil
}
