package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 以下は永続化されない派生ビューです。取得のたびに (データ, 現在時刻) から再計算します

// Category は表示・運用上の注文区分です
type Category string

const (
	CategoryLive    Category = "LIVE"
	CategoryServed  Category = "SERVED"
	CategoryExpired Category = "EXPIRED"
)

// Permissions はスタッフ操作と利用者キャンセルの可否です
// Message はスタッフ向け、CancelMessage は利用者向けの説明文です
type Permissions struct {
	CanPrepare    bool       `json:"canPrepare"`
	CanServe      bool       `json:"canServe"`
	CanCancel     bool       `json:"canCancel"`
	Message       string     `json:"message,omitempty"`
	CancelMessage string     `json:"cancelMessage,omitempty"`
	CancelCutoff  *time.Time `json:"cancelCutoff,omitempty"`
}

// BillLine は請求明細の1行です
type BillLine struct {
	MenuItemID int64           `json:"menuItemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
}

func (l BillLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Bill は単一注文またはセッション全体の請求です
type Bill struct {
	Items      []BillLine      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	OrderCount int             `json:"orderCount"`
}

// OrderView は注文1件分の派生状態です
// DisplayStatus は履歴側で表示上だけ付け替えたステータスで、Order.Status は変更しません
type OrderView struct {
	Order         Order       `json:"order"`
	Category      Category    `json:"category"`
	IsStarted     bool        `json:"isStarted"`
	Permissions   Permissions `json:"permissions"`
	DisplayStatus OrderStatus `json:"displayStatus"`
}

// Snapshot はポーリング1回分のパイプライン出力です
type Snapshot struct {
	ID      uuid.UUID        `json:"id"`
	TakenAt time.Time        `json:"takenAt"`
	Active  []OrderView      `json:"active"`
	History []OrderView      `json:"history"`
	Counts  map[Category]int `json:"counts"`
}

// NewSnapshot は新しいIDを払い出したスナップショットを作成します
func NewSnapshot(takenAt time.Time) Snapshot {
	return Snapshot{
		ID:      uuid.New(),
		TakenAt: takenAt,
		Active:  []OrderView{},
		History: []OrderView{},
		Counts: map[Category]int{
			CategoryLive:    0,
			CategoryServed:  0,
			CategoryExpired: 0,
		},
	}
}

// Summary はStep Functionsへ返す要約です
type Summary struct {
	SnapshotID   uuid.UUID        `json:"snapshot_id"`
	TakenAt      time.Time        `json:"taken_at"`
	ActiveCount  int              `json:"active_count"`
	HistoryCount int              `json:"history_count"`
	Counts       map[Category]int `json:"counts"`
}

// Summarize はスナップショットの件数だけを取り出します
func (s Snapshot) Summarize() Summary {
	return Summary{
		SnapshotID:   s.ID,
		TakenAt:      s.TakenAt,
		ActiveCount:  len(s.Active),
		HistoryCount: len(s.History),
		Counts:       s.Counts,
	}
}
