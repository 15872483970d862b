package display

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

func TestDate(t *testing.T) {
	assert.Equal(t, "19-10-2026", Date("2026-10-19"))
	assert.Equal(t, "05-01-2027", Date("2027-01-05"))
	assert.Equal(t, "not-a-date", Date("not-a-date"))
}

func TestClockString(t *testing.T) {
	tests := map[string]string{
		"00:00":    "12:00 AM",
		"09:05":    "9:05 AM",
		"12:00":    "12:00 PM",
		"17:30":    "5:30 PM",
		"23:45:00": "11:45 PM",
		"bad":      "bad",
	}
	for in, want := range tests {
		assert.Equal(t, want, ClockString(in), in)
	}
}

func TestSlot(t *testing.T) {
	assert.Equal(t, "6:00 PM - 8:00 PM", Slot(&model.TimeSlot{StartTime: "18:00", EndTime: "20:00"}))
	assert.Equal(t, "", Slot(&model.TimeSlot{StartTime: "18:00"}))
	assert.Equal(t, "", Slot(nil))
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2026, time.October, 19, 18, 7, 0, 0, time.UTC)
	assert.Equal(t, "19-10-2026, 6:07 PM", Timestamp(ts))
	assert.Equal(t, "", Timestamp(time.Time{}))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹367.50", Money(decimal.RequireFromString("367.5")))
	assert.Equal(t, "₹0.00", Money(decimal.Zero))
	assert.Equal(t, "₹17.50", Money(decimal.RequireFromString("17.5")))
}

func TestFormatBill(t *testing.T) {
	bill := model.Bill{
		Items: []model.BillLine{
			{MenuItemID: 1, Name: "Butter Naan", UnitPrice: decimal.NewFromInt(100), Quantity: 3},
			{MenuItemID: 2, Name: "Lassi", UnitPrice: decimal.NewFromInt(50), Quantity: 1},
		},
		Subtotal:   decimal.NewFromInt(350),
		Tax:        decimal.RequireFromString("17.5"),
		Total:      decimal.RequireFromString("367.5"),
		OrderCount: 2,
	}
	res := &model.Reservation{
		ID:       7,
		Date:     "2026-10-19",
		TimeSlot: &model.TimeSlot{StartTime: "18:00", EndTime: "20:00"},
		Table:    &model.Table{TableNumber: 12, Capacity: 4},
	}

	got := FormatBill(bill, res, "asha")

	assert.Equal(t, "12", got.Table)
	assert.Equal(t, "19-10-2026", got.Date)
	assert.Equal(t, "6:00 PM - 8:00 PM", got.Slot)
	assert.Equal(t, "asha", got.Guest)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, BillLine{No: 1, Name: "Butter Naan", Quantity: "3", UnitPrice: "₹100.00", LineTotal: "₹300.00"}, got.Lines[0])
	assert.Equal(t, "₹350.00", got.Subtotal)
	assert.Equal(t, "₹17.50", got.Tax)
	assert.Equal(t, "₹367.50", got.Total)
}

func TestFormatBill_WalkIn(t *testing.T) {
	got := FormatBill(model.Bill{}, nil, "")

	assert.Equal(t, "Walk-in", got.Table)
	assert.Equal(t, "N/A", got.Slot)
	assert.Equal(t, "Guest", got.Guest)
	assert.Empty(t, got.Lines)
}

func TestFormatOrderBill(t *testing.T) {
	order := model.Order{
		User:      model.User{Username: "ravi"},
		CreatedAt: time.Date(2026, time.October, 19, 18, 7, 0, 0, time.UTC),
		Reservation: &model.Reservation{
			Date:     "2026-10-19",
			TimeSlot: &model.TimeSlot{StartTime: "18:00", EndTime: "20:00"},
			Table:    &model.Table{TableNumber: 3},
		},
	}

	got := FormatOrderBill(model.Bill{}, order)

	assert.Equal(t, "3", got.Table)
	assert.Equal(t, "ravi", got.Guest)
	assert.Equal(t, "19-10-2026, 6:07 PM", got.OrderedAt)
	assert.Empty(t, FormatBill(model.Bill{}, nil, "").OrderedAt)
}
