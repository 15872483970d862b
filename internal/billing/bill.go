package billing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// TaxRate は税額が保存されていない場合と統合請求で使う税率（5%）です
var TaxRate = decimal.New(5, -2)

var (
	// ErrNoConsolidationTarget は統合請求の対象がない場合のエラーです
	// 利用者に表示する非致命的なエラーとして扱います
	ErrNoConsolidationTarget = errors.New("no consolidation target")

	errWalkIn         = fmt.Errorf("%w: order is not linked to a reservation (walk-in)", ErrNoConsolidationTarget)
	errNoSessionOrder = fmt.Errorf("%w: no valid orders found for this session", ErrNoConsolidationTarget)
)

// BillFor は単一注文の請求を計算します
// 保存済みの税額・合計額があればそれを優先します（ゼロは未保存として扱います）
func BillFor(order model.Order) model.Bill {
	lines := make([]model.BillLine, 0, len(order.Items))
	subtotal := decimal.Zero
	for _, item := range order.Items {
		line := model.BillLine{
			MenuItemID: item.MenuItem.ID,
			Name:       item.MenuItem.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(line.LineTotal())
	}

	tax := storedOr(order.TaxAmount, subtotal.Mul(TaxRate))
	total := storedOr(order.TotalAmount, subtotal.Add(tax))

	return model.Bill{
		Items:      lines,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		OrderCount: 1,
	}
}

// SessionOrders は起点の注文と同じ予約に属する、キャンセルされていない注文を返します
func SessionOrders(trigger model.Order, orders []model.Order) ([]model.Order, error) {
	if trigger.IsWalkIn() {
		return nil, errWalkIn
	}
	reservationID := trigger.Reservation.ID

	session := make([]model.Order, 0)
	for _, order := range orders {
		if order.IsWalkIn() || order.Reservation.ID != reservationID || order.Status.IsCancelled() {
			continue
		}
		session = append(session, order)
	}
	if len(session) == 0 {
		return nil, errNoSessionOrder
	}
	return session, nil
}

// ConsolidatedBillFor はセッション内の注文をメニュー項目単位でまとめた請求を計算します
// 単価は作成日時が最も早い注文での出現を採用するため、入力の並び順に依存しません
// 税は統合後の小計から常に5%で再計算します。キャンセル済みの注文は含めません
func ConsolidatedBillFor(sessionOrders []model.Order) (model.Bill, error) {
	ordered := make([]model.Order, 0, len(sessionOrders))
	for _, order := range sessionOrders {
		if order.Status.IsCancelled() {
			continue
		}
		ordered = append(ordered, order)
	}
	if len(ordered) == 0 {
		return model.Bill{}, errNoSessionOrder
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	merged := make(map[int64]*model.BillLine)
	for _, order := range ordered {
		for _, item := range order.Items {
			line, ok := merged[item.MenuItem.ID]
			if !ok {
				line = &model.BillLine{
					MenuItemID: item.MenuItem.ID,
					Name:       item.MenuItem.Name,
					UnitPrice:  item.UnitPrice,
				}
				merged[item.MenuItem.ID] = line
			}
			line.Quantity += item.Quantity
		}
	}

	lines := make([]model.BillLine, 0, len(merged))
	for _, line := range merged {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].MenuItemID < lines[j].MenuItemID
	})

	return totals(lines, len(ordered)), nil
}

// ConsolidatedBillForOrder は起点の注文からセッションを特定して統合請求を計算します
func ConsolidatedBillForOrder(trigger model.Order, orders []model.Order) (model.Bill, error) {
	session, err := SessionOrders(trigger, orders)
	if err != nil {
		return model.Bill{}, err
	}
	return ConsolidatedBillFor(session)
}

// CartTotals はカート（メニューID→数量）の小計・税・合計を計算します
// メニューに存在しないIDと数量0以下の行は無視します
func CartTotals(menu []model.MenuItem, cart map[int64]int) model.Bill {
	prices := make(map[int64]model.MenuItem, len(menu))
	for _, item := range menu {
		prices[item.ID] = item
	}

	lines := make([]model.BillLine, 0, len(cart))
	for id, quantity := range cart {
		item, ok := prices[id]
		if !ok || quantity <= 0 {
			continue
		}
		lines = append(lines, model.BillLine{
			MenuItemID: id,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].MenuItemID < lines[j].MenuItemID
	})

	return totals(lines, 0)
}

func totals(lines []model.BillLine, orderCount int) model.Bill {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	tax := subtotal.Mul(TaxRate)
	return model.Bill{
		Items:      lines,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
		OrderCount: orderCount,
	}
}

func storedOr(stored *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if stored == nil || stored.IsZero() {
		return fallback
	}
	return *stored
}
