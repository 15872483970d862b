package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// OrderRow は orders と予約・予約枠・テーブルを結合した1行です
// 予約のない注文（ウォークイン）は予約側の列が NULL になります
type OrderRow struct {
	ID          int64               `db:"id"`
	Username    string              `db:"username"`
	Status      string              `db:"status"`
	TotalAmount decimal.NullDecimal `db:"total_amount"`
	TaxAmount   decimal.NullDecimal `db:"tax_amount"`
	CreatedAt   time.Time           `db:"created_at"`

	ReservationID   sql.NullInt64  `db:"reservation_id"`
	ReservationDate sql.NullString `db:"reservation_date"`
	TimeSlotID      sql.NullInt64  `db:"time_slot_id"`
	StartTime       sql.NullString `db:"start_time"`
	EndTime         sql.NullString `db:"end_time"`
	TableID         sql.NullInt64  `db:"table_id"`
	TableNumber     sql.NullInt64  `db:"table_number"`
	Capacity        sql.NullInt64  `db:"capacity"`
}

// OrderItemRow は order_items とメニュー名を結合した1行です
type OrderItemRow struct {
	OrderID    int64           `db:"order_id"`
	MenuItemID int64           `db:"menu_item_id"`
	Name       string          `db:"name"`
	Quantity   int             `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
}

// ReservationRow は reservations と予約枠・テーブルを結合した1行です
type ReservationRow struct {
	ID          int64          `db:"id"`
	Date        string         `db:"reservation_date"`
	TimeSlotID  sql.NullInt64  `db:"time_slot_id"`
	StartTime   sql.NullString `db:"start_time"`
	EndTime     sql.NullString `db:"end_time"`
	TableID     sql.NullInt64  `db:"table_id"`
	TableNumber sql.NullInt64  `db:"table_number"`
	Capacity    sql.NullInt64  `db:"capacity"`
}

// ToOrder は行と明細から注文を組み立てます
func (r OrderRow) ToOrder(items []model.OrderItem) model.Order {
	order := model.Order{
		ID:          r.ID,
		User:        model.User{Username: r.Username},
		Items:       items,
		Status:      model.ParseOrderStatus(r.Status),
		TotalAmount: decimalPtr(r.TotalAmount),
		TaxAmount:   decimalPtr(r.TaxAmount),
		CreatedAt:   r.CreatedAt,
	}
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}

	if r.ReservationID.Valid {
		order.Reservation = ReservationRow{
			ID:          r.ReservationID.Int64,
			Date:        r.ReservationDate.String,
			TimeSlotID:  r.TimeSlotID,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			TableID:     r.TableID,
			TableNumber: r.TableNumber,
			Capacity:    r.Capacity,
		}.ToReservation()
	}
	return order
}

// ToReservation は行から予約を組み立てます
func (r ReservationRow) ToReservation() *model.Reservation {
	reservation := &model.Reservation{
		ID:   r.ID,
		Date: r.Date,
	}
	if r.TimeSlotID.Valid || r.StartTime.Valid || r.EndTime.Valid {
		reservation.TimeSlot = &model.TimeSlot{
			ID:        r.TimeSlotID.Int64,
			StartTime: r.StartTime.String,
			EndTime:   r.EndTime.String,
		}
	}
	if r.TableID.Valid {
		reservation.Table = &model.Table{
			ID:          r.TableID.Int64,
			TableNumber: int(r.TableNumber.Int64),
			Capacity:    int(r.Capacity.Int64),
		}
	}
	return reservation
}

// ToOrderItem は明細行を注文明細に変換します
func (r OrderItemRow) ToOrderItem() model.OrderItem {
	return model.OrderItem{
		MenuItem:  model.MenuItemRef{ID: r.MenuItemID, Name: r.Name},
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
