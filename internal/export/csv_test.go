package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"ordersync/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() model.Order {
	return model.Order{
		ID:               1,
		OrderID:          "1001",
		OrderNumber:      "#1001",
		TotalPrice:       "10.50",
		PaymentGateway:   "manual",
		CustomerEmail:    "a@example.com",
		CustomerFullName: "Ann Lee",
		CustomerAddress:  "1 Main St, Ottawa, Canada",
		Tags:             "vip,urgent",
		CreatedAt:        time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC),
	}
}

func TestRow_ColumnOrderAndQuoting(t *testing.T) {
	got := Row(sampleOrder())

	want := `1001,#1001,10.50,manual,a@example.com,"Ann Lee","1 Main St, Ottawa, Canada","vip,urgent",2024-05-06T07:08:09.123Z`
	assert.Equal(t, want, got)
}

func TestRow_EscapesQuotesAndGatewayLists(t *testing.T) {
	o := sampleOrder()
	o.CustomerFullName = `Ann "Annie" Lee`
	o.PaymentGateway = "bogus,manual"
	o.Tags = ""

	r := csv.NewReader(strings.NewReader(Row(o)))
	rec, err := r.Read()
	require.NoError(t, err)

	require.Equal(t, len(Columns), len(rec))
	assert.Equal(t, "bogus,manual", rec[3])
	assert.Equal(t, `Ann "Annie" Lee`, rec[5])
	assert.Equal(t, "", rec[7])
}

func TestWriteOrdersCSV_RowPerOrder(t *testing.T) {
	a := sampleOrder()
	b := sampleOrder()
	b.OrderID = "1002"

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, []model.Order{a, b}))

	lines := strings.Split(buf.String(), "\n")
	require.Equal(t, 2, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "1001,"))
	assert.True(t, strings.HasPrefix(lines[1], "1002,"))
}

func TestWriteOrdersCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, nil))
	assert.Equal(t, "", buf.String())
}
