package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"ordersync/internal/domain/model"
	"ordersync/internal/export"
	repo "ordersync/internal/repository"
)

// 管理画面の操作者（セッショントークンから取る）
type Actor struct {
	Shop   string
	UserID string
}

// OrderAdminUsecase は管理画面向け（一覧・詳細・CSV・タグ編集）。
// タグ編集のエラーは握りつぶさず返す。
type OrderAdminUsecase struct {
	orders repo.OrderRepository
	audits repo.AuditLogRepository
	tx     repo.TransactionManager
	sync   *OrderSyncUsecase
	now    func() time.Time
}

func NewOrderAdminUsecase(
	orders repo.OrderRepository,
	audits repo.AuditLogRepository,
	tx repo.TransactionManager,
	sync *OrderSyncUsecase,
) *OrderAdminUsecase {
	return &OrderAdminUsecase{orders: orders, audits: audits, tx: tx, sync: sync, now: time.Now}
}

// 新しい順の一覧
func (u *OrderAdminUsecase) List(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return []model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

func (u *OrderAdminUsecase) Get(ctx context.Context, orderID string) (model.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := u.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return o, nil
}

// ExportCSV は一覧をCSVで書き出す
func (u *OrderAdminUsecase) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := u.List(ctx)
	if err != nil {
		return err
	}
	return export.WriteOrdersCSV(w, orders)
}

// SearchTags は注文のタグから部分一致で候補を返す
func (u *OrderAdminUsecase) SearchTags(ctx context.Context, orderID string, query string) ([]string, error) {
	o, err := u.Get(ctx, orderID)
	if err != nil {
		return []string{}, err
	}
	return o.TagSet().Search(strings.TrimSpace(query)), nil
}

// AuditTrail は注文のタグ編集履歴（新しい順）。操作者のショップの分だけ返す。
func (u *OrderAdminUsecase) AuditTrail(ctx context.Context, actor Actor, orderID string, limit int) ([]model.AuditLog, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if limit < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	logs, err := u.audits.List(ctx, repo.AuditLogFilter{
		Shop:       actor.Shop,
		ResourceID: orderID,
		Limit:      limit,
	})
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// ReplaceTags はタグ集合を丸ごと置き換える（入力は集合に通すので重複は落ちる）
func (u *OrderAdminUsecase) ReplaceTags(ctx context.Context, actor Actor, orderID string, tags string) (model.Order, error) {
	return u.editTags(ctx, actor, orderID, model.AuditActionReplaceOrderTags, func(_ *model.TagSet) *model.TagSet {
		return model.ParseTags(tags)
	})
}

func (u *OrderAdminUsecase) AddTag(ctx context.Context, actor Actor, orderID string, tag string) (model.Order, error) {
	if strings.TrimSpace(tag) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid tag")
	}
	if strings.Contains(tag, model.TagSep) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "tag must not contain a comma")
	}
	return u.editTags(ctx, actor, orderID, model.AuditActionAddOrderTag, func(s *model.TagSet) *model.TagSet {
		s.Add(tag)
		return s
	})
}

func (u *OrderAdminUsecase) RemoveTag(ctx context.Context, actor Actor, orderID string, tag string) (model.Order, error) {
	if strings.TrimSpace(tag) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid tag")
	}
	return u.editTags(ctx, actor, orderID, model.AuditActionRemoveOrderTag, func(s *model.TagSet) *model.TagSet {
		s.Remove(tag)
		return s
	})
}

// editTags は「現在のタグを読む→集合を変更→upsert→監査ログ」を1トランザクションで行う。
// 編集画面は同期済みの注文が前提なので、未同期なら404。
func (u *OrderAdminUsecase) editTags(
	ctx context.Context,
	actor Actor,
	orderID string,
	action model.AuditAction,
	mutate func(s *model.TagSet) *model.TagSet,
) (model.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		current, err := r.Orders().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		before := current.Tags

		next := mutate(model.ParseTags(before))

		o, err := u.sync.syncWith(ctx, r.Orders(), TagEditEvent{OrderID: orderID, Tags: next.String()})
		if err != nil {
			return syncErrorToHTTP(err)
		}

		// ★監査ログ
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Shop:         actor.Shop,
			ActorID:      actor.UserID,
			Action:       action,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   tagsJSON(before),
			AfterJSON:    tagsJSON(o.Tags),
			CreatedAt:    u.now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = o
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Order{}, err
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}

func syncErrorToHTTP(err error) error {
	if se, ok := AsSyncError(err); ok && se.Kind == SyncErrorValidation {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func tagsJSON(tags string) string {
	b, _ := json.Marshal(map[string]string{"tags": tags})
	return string(b)
}
