package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus は注文のライフサイクル上の状態です
type OrderStatus string

const (
	// OrderStatusPlaced と OrderStatusOrdered は同じ初期状態を表します
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus は大文字小文字の揺れを吸収します
func ParseOrderStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseOrderStatus(raw)
	return nil
}

// IsInitial は調理前の初期状態（PLACED / ORDERED）かを返します
func (s OrderStatus) IsInitial() bool {
	return s == OrderStatusPlaced || s == OrderStatusOrdered
}

// IsServed は提供済み（SERVED / COMPLETED）かを返します
func (s OrderStatus) IsServed() bool {
	return s == OrderStatusServed || s == OrderStatusCompleted
}

func (s OrderStatus) IsCancelled() bool {
	return s == OrderStatusCancelled
}

type User struct {
	Username string `json:"username"`
}

// MenuItemRef は注文明細が参照するメニュー項目です
type MenuItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderItem は注文明細です
type OrderItem struct {
	MenuItem  MenuItemRef     `json:"menuItemRef"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// UnmarshalJSON は注文APIが返す menuItem / price のフィールド名も受け付けます
func (i *OrderItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		MenuItemRef *MenuItemRef     `json:"menuItemRef"`
		MenuItem    *MenuItemRef     `json:"menuItem"`
		Quantity    int              `json:"quantity"`
		UnitPrice   *decimal.Decimal `json:"unitPrice"`
		Price       *decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*i = OrderItem{Quantity: raw.Quantity}
	switch {
	case raw.MenuItemRef != nil:
		i.MenuItem = *raw.MenuItemRef
	case raw.MenuItem != nil:
		i.MenuItem = *raw.MenuItem
	}
	switch {
	case raw.UnitPrice != nil:
		i.UnitPrice = *raw.UnitPrice
	case raw.Price != nil:
		i.UnitPrice = *raw.Price
	}
	return nil
}

// LineTotal は数量×単価を返します
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order は注文です。Reservation が nil の場合はウォークインとして扱います
type Order struct {
	ID          int64            `json:"id"`
	User        User             `json:"user"`
	Reservation *Reservation     `json:"reservation,omitempty"`
	Items       []OrderItem      `json:"items"`
	Status      OrderStatus      `json:"status"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
	TaxAmount   *decimal.Decimal `json:"taxAmount,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// IsWalkIn は予約に紐づかない注文かを返します
func (o Order) IsWalkIn() bool {
	return o.Reservation == nil
}

// ReservationID は紐づく予約IDを返します
func (o Order) ReservationID() (int64, bool) {
	if o.Reservation == nil {
		return 0, false
	}
	return o.Reservation.ID, true
}

// MenuItem はメニュー項目です（カート合計の計算に利用）
type MenuItem struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Available bool            `json:"available" db:"available"`
}
