// Package export writes mirrored orders as delimited text.
package export

import (
	"bufio"
	"io"
	"strings"

	"ordersync/internal/domain/model"
)

// CreatedAtLayout はJSONで返す日時と同じ形（ミリ秒, UTC）
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Columns は出力列の順番。ヘッダ行は出力しない。
var Columns = []string{
	"orderId",
	"orderNumber",
	"totalPrice",
	"paymentGateway",
	"customerEmail",
	"customerFullName",
	"customerAddress",
	"tags",
	"createdAt",
}

// WriteOrdersCSV は1注文1行で書き出す（行区切りは "\n"）。
// 氏名・住所・タグは常にダブルクォートで囲む。
// それ以外の列は区切り文字などを含むときだけ囲む。
func WriteOrdersCSV(w io.Writer, orders []model.Order) error {
	bw := bufio.NewWriter(w)
	for i, o := range orders {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(Row(o)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Row は1行分（改行なし）
func Row(o model.Order) string {
	fields := []string{
		maybeQuote(o.OrderID),
		maybeQuote(o.OrderNumber),
		maybeQuote(o.TotalPrice),
		maybeQuote(o.PaymentGateway),
		maybeQuote(o.CustomerEmail),
		quote(o.CustomerFullName),
		quote(o.CustomerAddress),
		quote(o.Tags),
		o.CreatedAt.UTC().Format(CreatedAtLayout),
	}
	return strings.Join(fields, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func maybeQuote(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
