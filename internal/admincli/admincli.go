// Package admincli implements the operator commands of ordersctl.
package admincli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"ordersync/internal/domain/model"
	"ordersync/internal/export"
	repo "ordersync/internal/repository"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUsage = errors.New("usage: ordersctl <list|show|delete|export|session-add|session-remove> [args]")

type CLI struct {
	orders   repo.OrderRepository
	sessions repo.ShopSessionRepository
	out      io.Writer
	log      *zap.Logger
}

func New(orders repo.OrderRepository, sessions repo.ShopSessionRepository, out io.Writer, log *zap.Logger) *CLI {
	if log == nil {
		log = zap.NewNop()
	}
	return &CLI{orders: orders, sessions: sessions, out: out, log: log}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		return c.list(ctx)
	case "show":
		id, err := oneArg(rest)
		if err != nil {
			return err
		}
		return c.show(ctx, id)
	case "delete":
		id, err := oneArg(rest)
		if err != nil {
			return err
		}
		return c.delete(ctx, id)
	case "export":
		return c.export(ctx)
	case "session-add":
		return c.sessionAdd(ctx, rest)
	case "session-remove":
		shop, err := oneArg(rest)
		if err != nil {
			return err
		}
		return c.sessions.Deactivate(ctx, shop)
	default:
		return ErrUsage
	}
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", ErrUsage
	}
	return args[0], nil
}

//新しい順 + 合計金額
func (c *CLI) list(ctx context.Context) error {
	orders, err := c.orders.ListAll(ctx)
	if err != nil {
		return err
	}

	total := decimal.Zero
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Order ID", "Number", "Total", "Gateway", "Customer", "Tags", "Created")
	for _, o := range orders {
		if p, err := decimal.NewFromString(o.TotalPrice); err == nil {
			total = total.Add(p)
		} else if o.TotalPrice != "" {
			c.log.Warn("total price is not a decimal", zap.String("order_id", o.OrderID), zap.String("total_price", o.TotalPrice))
		}

		if err := table.Append(
			strconv.FormatInt(o.ID, 10),
			o.OrderID,
			o.OrderNumber,
			o.TotalPrice,
			o.PaymentGateway,
			o.CustomerFullName,
			o.Tags,
			o.CreatedAt.UTC().Format(export.CreatedAtLayout),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%d orders, total %s\n", len(orders), total.StringFixed(2))
	return err
}

func (c *CLI) show(ctx context.Context, orderID string) error {
	o, err := c.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Field", "Value")
	for _, row := range orderFields(o) {
		if err := table.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

func orderFields(o model.Order) [][2]string {
	return [][2]string{
		{"id", strconv.FormatInt(o.ID, 10)},
		{"order_id", o.OrderID},
		{"order_number", o.OrderNumber},
		{"total_price", o.TotalPrice},
		{"payment_gateway", o.PaymentGateway},
		{"customer_email", o.CustomerEmail},
		{"customer_full_name", o.CustomerFullName},
		{"customer_address", o.CustomerAddress},
		{"tags", o.Tags},
		{"created_at", o.CreatedAt.UTC().Format(export.CreatedAtLayout)},
		{"updated_at", o.UpdatedAt.UTC().Format(export.CreatedAtLayout)},
	}
}

// 削除はここだけ。存在しなければ何もしない
func (c *CLI) delete(ctx context.Context, orderID string) error {
	deleted, err := c.orders.Delete(ctx, orderID)
	if err != nil {
		return err
	}
	if !deleted {
		c.log.Info("order not found, nothing deleted", zap.String("order_id", orderID))
		_, err = fmt.Fprintf(c.out, "order %s not found\n", orderID)
		return err
	}
	_, err = fmt.Fprintf(c.out, "order %s deleted\n", orderID)
	return err
}

func (c *CLI) export(ctx context.Context) error {
	orders, err := c.orders.ListAll(ctx)
	if err != nil {
		return err
	}
	return export.WriteOrdersCSV(c.out, orders)
}

// インストール処理の代わりにセッションを登録する
func (c *CLI) sessionAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session-add", flag.ContinueOnError)
	fs.SetOutput(c.out)
	token := fs.String("token", "", "offline access token")
	scope := fs.String("scope", "read_orders,write_orders", "granted scopes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	shop, err := oneArg(fs.Args())
	if err != nil {
		return err
	}

	if err := c.sessions.Save(ctx, model.ShopSession{
		Shop:        shop,
		AccessToken: *token,
		Scope:       *scope,
		IsActive:    true,
	}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "session saved for %s\n", shop)
	return err
}
