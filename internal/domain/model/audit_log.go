package model

import "time"

// 何の操作か
type AuditAction string

const (
	//注文タグを置き換えた操作。
	AuditActionReplaceOrderTags AuditAction = "REPLACE_ORDER_TAGS"
	//注文タグを1件追加した操作。
	AuditActionAddOrderTag AuditAction = "ADD_ORDER_TAG"
	//注文タグを1件外した操作。
	AuditActionRemoveOrderTag AuditAction = "REMOVE_ORDER_TAG"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理画面からの操作ログ）。
// 「どのショップの」「誰が」「どの注文に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//ショップドメイン
	Shop string `gorm:"type:varchar(255);not null;index" json:"shop"`

	//セッショントークンのsub（Shopifyのスタッフ）
	ActorID string `gorm:"type:varchar(64);not null;index" json:"actor_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象の注文（Shopify側のID）
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
