package schedule

import (
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// PrepareLeadTime は予約枠開始の何分前から調理を始められるかを表します
// 分類・操作可否・キャンセル締切のすべてがこの値を共有します
const PrepareLeadTime = 30 * time.Minute

const (
	dateLayout         = "2006-01-02"
	clockLayout        = "15:04"
	clockSecondsLayout = "15:04:05"
)

// Windows は予約から導出した時刻の区切りです
// HasSlot が false の場合、その他のフィールドはゼロ値で、呼び出し側は時間制約なしとして扱います
type Windows struct {
	PrepareStart time.Time
	SlotStart    time.Time
	SlotEnd      time.Time
	IsToday      bool
	HasSlot      bool
}

// WindowsFor は予約の日付と枠から具体的な時刻を組み立てます
// 日付・時刻は now と同じロケーションの現地時刻として解釈します
// 欠損や書式不正はエラーにせず HasSlot=false を返します
func WindowsFor(reservation *model.Reservation, now time.Time) Windows {
	if !reservation.HasSlotFields() {
		return Windows{}
	}

	loc := now.Location()
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(reservation.Date), loc)
	if err != nil {
		return Windows{}
	}
	start, ok := atClock(day, reservation.TimeSlot.StartTime)
	if !ok {
		return Windows{}
	}
	end, ok := atClock(day, reservation.TimeSlot.EndTime)
	if !ok || !start.Before(end) {
		return Windows{}
	}

	y, m, d := now.Date()
	return Windows{
		PrepareStart: start.Add(-PrepareLeadTime),
		SlotStart:    start,
		SlotEnd:      end,
		IsToday:      day.Year() == y && day.Month() == m && day.Day() == d,
		HasSlot:      true,
	}
}

// SlotStart は予約の日付と開始時刻だけから枠の開始時刻を組み立てます
// 終了時刻が欠けていても開始時刻を解釈できれば ok=true を返します
func SlotStart(reservation *model.Reservation, now time.Time) (time.Time, bool) {
	if reservation == nil || reservation.TimeSlot == nil {
		return time.Time{}, false
	}
	return startOn(reservation.Date, reservation.TimeSlot.StartTime, now.Location())
}

// startOn は "YYYY-MM-DD" の日付に開始時刻を載せます
func startOn(date, clock string, loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, false
	}
	return atClock(day, clock)
}

// Elapsed は枠の終了時刻を過ぎているかを返します
func (w Windows) Elapsed(now time.Time) bool {
	return w.HasSlot && now.After(w.SlotEnd)
}

// InProgress は枠の時間内（開始・終了を含む）かを返します
func (w Windows) InProgress(now time.Time) bool {
	return w.HasSlot && !now.Before(w.SlotStart) && !now.After(w.SlotEnd)
}

// atClock は日付に "HH:MM" または "HH:MM:SS" の時刻を載せます（秒は切り捨て）
func atClock(day time.Time, clock string) (time.Time, bool) {
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// ParseClock は "HH:MM" / "HH:MM:SS" を時・分に分解します
func ParseClock(clock string) (int, int, bool) {
	clock = strings.TrimSpace(clock)
	layout := clockLayout
	if strings.Count(clock, ":") == 2 {
		layout = clockSecondsLayout
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
