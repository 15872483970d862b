package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/lib/pq"

	"github.com/uma-arai/sbcntr-dining-batch/internal/common/models"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// ErrOrderNotFound は指定した注文が存在しない場合のエラーです
var ErrOrderNotFound = errors.New("order not found")

// 日付と時刻は文字列で取り出し、解釈はエンジン側のタイムゾーンに任せる
const orderSelect = `
	SELECT
		o.id,
		u.username,
		o.status,
		o.total_amount,
		o.tax_amount,
		o.created_at,
		r.id AS reservation_id,
		to_char(r.reservation_date, 'YYYY-MM-DD') AS reservation_date,
		ts.id AS time_slot_id,
		to_char(ts.start_time, 'HH24:MI') AS start_time,
		to_char(ts.end_time, 'HH24:MI') AS end_time,
		t.id AS table_id,
		t.table_number,
		t.capacity
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN reservations r ON r.id = o.reservation_id
	LEFT JOIN time_slots ts ON ts.id = r.time_slot_id
	LEFT JOIN restaurant_tables t ON t.id = r.table_id
`

// OrderRepository は注文の読み取りを担当するインターフェースです
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*model.Order, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]model.Order, error)
}

// OrderRepositoryImpl はOrderRepositoryの実装です
type OrderRepositoryImpl struct {
	db *DB
}

// NewOrderRepository は新しいOrderRepositoryを作成します
func NewOrderRepository(db *DB) *OrderRepositoryImpl {
	return &OrderRepositoryImpl{db: db}
}

// ListOrders はすべての注文を予約・明細付きで取得します
func (r *OrderRepositoryImpl) ListOrders(ctx context.Context) ([]model.Order, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "OrderRepository.ListOrders")
	defer seg.Close(nil)

	var rows []models.OrderRow
	if err := r.db.SelectContext(ctx, &rows, orderSelect+` ORDER BY o.id`); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := r.attachItems(ctx, rows)
	if err != nil {
		seg.Close(err)
		return nil, err
	}
	return orders, nil
}

// GetOrder は指定した注文を取得します
func (r *OrderRepositoryImpl) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "OrderRepository.GetOrder")
	defer seg.Close(nil)

	var row models.OrderRow
	if err := r.db.GetContext(ctx, &row, orderSelect+` WHERE o.id = $1`, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
		} else {
			err = fmt.Errorf("failed to get order %d: %w", orderID, err)
		}
		seg.Close(err)
		return nil, err
	}

	orders, err := r.attachItems(ctx, []models.OrderRow{row})
	if err != nil {
		seg.Close(err)
		return nil, err
	}
	return &orders[0], nil
}

// ListByReservation は同じ予約に属する注文を取得します
func (r *OrderRepositoryImpl) ListByReservation(ctx context.Context, reservationID int64) ([]model.Order, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "OrderRepository.ListByReservation")
	defer seg.Close(nil)

	var rows []models.OrderRow
	query := orderSelect + ` WHERE o.reservation_id = $1 ORDER BY o.created_at, o.id`
	if err := r.db.SelectContext(ctx, &rows, query, reservationID); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query orders for reservation %d: %w", reservationID, err)
	}

	orders, err := r.attachItems(ctx, rows)
	if err != nil {
		seg.Close(err)
		return nil, err
	}
	return orders, nil
}

// attachItems は明細をまとめて取得して注文に付与します
// N+1とならないように注文IDの配列で1回だけ問い合わせる
func (r *OrderRepositoryImpl) attachItems(ctx context.Context, rows []models.OrderRow) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	query := `
		SELECT
			oi.order_id,
			oi.menu_item_id,
			m.name,
			oi.quantity,
			oi.unit_price
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`

	var itemRows []models.OrderItemRow
	if err := r.db.SelectContext(ctx, &itemRows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	items := make(map[int64][]model.OrderItem, len(rows))
	for _, item := range itemRows {
		items[item.OrderID] = append(items[item.OrderID], item.ToOrderItem())
	}

	for _, row := range rows {
		orders = append(orders, row.ToOrder(items[row.ID]))
	}
	return orders, nil
}
