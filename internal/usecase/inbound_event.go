package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	repo "ordersync/internal/repository"
)

// InboundEvent は注文を書き換える入力。WebhookOrderEvent か TagEditEvent のどちらか。
type InboundEvent interface {
	patch() repo.OrderPatch
	source() string
}

// Webhook（orders/create, orders/updated）の注文ペイロード
type WebhookOrderEvent struct {
	Payload WebhookOrderPayload
}

// 管理画面からのタグ編集。Tagsは重複排除済みのカンマ区切り。
type TagEditEvent struct {
	OrderID string
	Tags    string
}

type WebhookOrderPayload struct {
	ID                  FlexString       `json:"id"`
	OrderNumber         *FlexString      `json:"order_number"`
	TotalPrice          *FlexString      `json:"total_price"`
	PaymentGatewayNames *GatewayNames    `json:"payment_gateway_names"`
	Tags                *string          `json:"tags"`
	Customer            *WebhookCustomer `json:"customer"`
}

type WebhookCustomer struct {
	Email          *string         `json:"email"`
	FirstName      *string         `json:"first_name"`
	LastName       *string         `json:"last_name"`
	DefaultAddress *WebhookAddress `json:"default_address"`
}

type WebhookAddress struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// DecodeWebhookOrder はWebhook本文を読む
func DecodeWebhookOrder(body []byte) (WebhookOrderEvent, error) {
	var p WebhookOrderPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return WebhookOrderEvent{}, fmt.Errorf("decode order payload: %w", err)
	}
	return WebhookOrderEvent{Payload: p}, nil
}

func (e WebhookOrderEvent) source() string { return "webhook" }

func (e WebhookOrderEvent) patch() repo.OrderPatch {
	p := e.Payload
	out := repo.OrderPatch{OrderID: strings.TrimSpace(string(p.ID))}

	if p.OrderNumber != nil {
		out.OrderNumber = p.OrderNumber.Ptr()
	}
	if p.TotalPrice != nil {
		out.TotalPrice = p.TotalPrice.Ptr()
	}
	if p.PaymentGatewayNames != nil {
		v := string(*p.PaymentGatewayNames)
		out.PaymentGateway = &v
	}
	if p.Tags != nil {
		v := *p.Tags
		out.Tags = &v
	}

	if c := p.Customer; c != nil {
		if c.Email != nil {
			v := *c.Email
			out.CustomerEmail = &v
		}
		//姓名が両方あるときだけ
		if c.FirstName != nil && c.LastName != nil {
			v := strings.TrimSpace(*c.FirstName + " " + *c.LastName)
			out.CustomerFullName = &v
		}
		if a := c.DefaultAddress; a != nil {
			v := a.Address1 + ", " + a.City + ", " + a.Country
			out.CustomerAddress = &v
		}
	}
	return out
}

func (e TagEditEvent) source() string { return "tag_edit" }

func (e TagEditEvent) patch() repo.OrderPatch {
	tags := e.Tags
	return repo.OrderPatch{OrderID: strings.TrimSpace(e.OrderID), Tags: &tags}
}

// FlexString は数値でも文字列でも文字列として受け取る（idは数値で届く）。
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) Ptr() *string {
	s := string(f)
	return &s
}

// GatewayNames は配列ならカンマ結合、文字列ならそのまま。
type GatewayNames string

func (g *GatewayNames) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*g = GatewayNames(strings.Join(list, ","))
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected string or list: %w", err)
	}
	*g = GatewayNames(s)
	return nil
}
