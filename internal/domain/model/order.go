package model

import "time"

// Shopifyの注文を1件＝1行でミラーする。
// OrderIDはShopify側のID（自然キー）、IDはローカル採番。
type Order struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	OrderNumber      string    `gorm:"type:varchar(64);not null;default:''" json:"order_number"`
	TotalPrice       string    `gorm:"type:varchar(64);not null;default:''" json:"total_price"`
	PaymentGateway   string    `gorm:"type:varchar(255);not null;default:''" json:"payment_gateway"`
	CustomerEmail    string    `gorm:"type:varchar(255);not null;default:''" json:"customer_email"`
	CustomerFullName string    `gorm:"type:varchar(255);not null;default:''" json:"customer_full_name"`
	CustomerAddress  string    `gorm:"type:text;not null" json:"customer_address"`
	Tags             string    `gorm:"type:text;not null" json:"tags"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// タグ集合として取り出す
func (o Order) TagSet() *TagSet {
	return ParseTags(o.Tags)
}
