// Package display は画面・レシート描画側に渡す文字列表現をまとめます
// 数値の Bill とは独立しており、計算には一切使いません
package display

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// CurrencyGlyph は金額の先頭に付ける通貨記号です
const CurrencyGlyph = "₹"

const (
	inputDateLayout   = "2006-01-02"
	displayDateLayout = "02-01-2006"
	clockLayout       = "3:04 PM"
)

// Date は "YYYY-MM-DD" を "DD-MM-YYYY" に変換します
// 解釈できない場合は入力をそのまま返します
func Date(value string) string {
	t, err := time.Parse(inputDateLayout, strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return t.Format(displayDateLayout)
}

// Clock は時刻を12時間表記（例: "5:30 PM"）にします
func Clock(t time.Time) string {
	return t.Format(clockLayout)
}

// ClockString は "HH:MM"（または "HH:MM:SS"）を12時間表記にします
func ClockString(value string) string {
	value = strings.TrimSpace(value)
	layout := "15:04"
	if strings.Count(value, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return value
	}
	return Clock(t)
}

// Slot は予約枠を "6:00 PM - 8:00 PM" の形式にします
func Slot(slot *model.TimeSlot) string {
	if slot == nil || slot.StartTime == "" || slot.EndTime == "" {
		return ""
	}
	return ClockString(slot.StartTime) + " - " + ClockString(slot.EndTime)
}

// Timestamp は "DD-MM-YYYY, h:mm AM/PM" 形式にします
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout) + ", " + Clock(t)
}

// Money は小数点以下2桁固定で通貨記号を付けます
func Money(amount decimal.Decimal) string {
	return CurrencyGlyph + amount.StringFixed(2)
}
