package display

import (
	"strconv"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// BillLine は請求明細1行分の表示文字列です
type BillLine struct {
	No        int    `json:"no"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// Bill はレシート描画側に渡す表示用の請求です
// OrderedAt は起点の注文の作成日時で、カートの場合は空です
type Bill struct {
	Table     string     `json:"table"`
	Date      string     `json:"date"`
	Slot      string     `json:"slot"`
	Guest     string     `json:"guest"`
	OrderedAt string     `json:"orderedAt,omitempty"`
	Lines     []BillLine `json:"lines"`
	Subtotal  string     `json:"subtotal"`
	Tax       string     `json:"tax"`
	Total     string     `json:"total"`
}

// FormatOrderBill は注文の予約・利用者・作成日時を添えて請求を表示用に変換します
func FormatOrderBill(bill model.Bill, order model.Order) Bill {
	out := FormatBill(bill, order.Reservation, order.User.Username)
	out.OrderedAt = Timestamp(order.CreatedAt)
	return out
}

// FormatBill は請求に予約情報を添えて表示用の文字列へ変換します
// 予約がない場合はテーブルを "Walk-in"、枠を "N/A" とします
func FormatBill(bill model.Bill, reservation *model.Reservation, guest string) Bill {
	out := Bill{
		Table:    "Walk-in",
		Slot:     "N/A",
		Guest:    guest,
		Lines:    make([]BillLine, 0, len(bill.Items)),
		Subtotal: Money(bill.Subtotal),
		Tax:      Money(bill.Tax),
		Total:    Money(bill.Total),
	}
	if out.Guest == "" {
		out.Guest = "Guest"
	}
	if reservation != nil {
		if n := reservation.TableNumber(); n > 0 {
			out.Table = strconv.Itoa(n)
		}
		out.Date = Date(reservation.Date)
		if s := Slot(reservation.TimeSlot); s != "" {
			out.Slot = s
		}
	}

	for i, item := range bill.Items {
		out.Lines = append(out.Lines, BillLine{
			No:        i + 1,
			Name:      item.Name,
			Quantity:  strconv.Itoa(item.Quantity),
			UnitPrice: Money(item.UnitPrice),
			LineTotal: Money(item.LineTotal()),
		})
	}
	return out
}
