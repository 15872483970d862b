package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

func TestOrderRow_ToOrder(t *testing.T) {
	createdAt := time.Date(2026, time.October, 19, 17, 45, 0, 0, time.UTC)

	t.Run("予約付きの注文", func(t *testing.T) {
		row := OrderRow{
			ID:              7,
			Username:        "meera",
			Status:          "preparing",
			TaxAmount:       decimal.NewNullDecimal(decimal.RequireFromString("17.50")),
			CreatedAt:       createdAt,
			ReservationID:   sql.NullInt64{Int64: 3, Valid: true},
			ReservationDate: sql.NullString{String: "2026-10-19", Valid: true},
			TimeSlotID:      sql.NullInt64{Int64: 2, Valid: true},
			StartTime:       sql.NullString{String: "18:00", Valid: true},
			EndTime:         sql.NullString{String: "20:00", Valid: true},
			TableID:         sql.NullInt64{Int64: 11, Valid: true},
			TableNumber:     sql.NullInt64{Int64: 4, Valid: true},
			Capacity:        sql.NullInt64{Int64: 2, Valid: true},
		}
		items := []model.OrderItem{
			OrderItemRow{OrderID: 7, MenuItemID: 1, Name: "Dosa", Quantity: 2, UnitPrice: decimal.NewFromInt(80)}.ToOrderItem(),
		}

		order := row.ToOrder(items)

		if order.Status != model.OrderStatusPreparing {
			t.Errorf("Status = %q", order.Status)
		}
		if order.TotalAmount != nil {
			t.Errorf("TotalAmount = %v, want nil", order.TotalAmount)
		}
		if order.TaxAmount == nil || !order.TaxAmount.Equal(decimal.RequireFromString("17.5")) {
			t.Errorf("TaxAmount = %v", order.TaxAmount)
		}
		if order.Reservation == nil || !order.Reservation.HasSlotFields() {
			t.Fatalf("Reservation = %+v", order.Reservation)
		}
		if order.Reservation.TableNumber() != 4 {
			t.Errorf("TableNumber() = %d", order.Reservation.TableNumber())
		}
		if order.Items[0].MenuItem.Name != "Dosa" || order.Items[0].Quantity != 2 {
			t.Errorf("Items = %+v", order.Items)
		}
	})

	t.Run("ウォークイン", func(t *testing.T) {
		row := OrderRow{ID: 8, Username: "walkin", Status: "ORDERED", CreatedAt: createdAt}

		order := row.ToOrder(nil)

		if !order.IsWalkIn() {
			t.Error("order should be a walk-in")
		}
		if order.Items == nil {
			t.Error("Items should be an empty slice")
		}
	})
}

func TestReservationRow_ToReservation(t *testing.T) {
	row := ReservationRow{ID: 5, Date: "2026-10-20"}

	reservation := row.ToReservation()

	if reservation.TimeSlot != nil || reservation.Table != nil {
		t.Errorf("unexpected slot or table: %+v", reservation)
	}
	if reservation.HasSlotFields() {
		t.Error("reservation without slot should not have slot fields")
	}
}
