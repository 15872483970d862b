package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// MealPeriod は予約枠の食事区分です
type MealPeriod string

const (
	MealPeriodBreakfast MealPeriod = "BREAKFAST"
	MealPeriodLunch     MealPeriod = "LUNCH"
	MealPeriodDinner    MealPeriod = "DINNER"
	MealPeriodOther     MealPeriod = "OTHER"
)

// MealPeriodOf は開始時刻の「時」で区分を決めます
// 朝食 8〜12時、昼食 12〜17時、夕食 17時以降、それ以外は OTHER
func MealPeriodOf(slot model.TimeSlot) MealPeriod {
	hour, _, ok := ParseClock(slot.StartTime)
	switch {
	case !ok:
		return MealPeriodOther
	case hour >= 8 && hour < 12:
		return MealPeriodBreakfast
	case hour >= 12 && hour < 17:
		return MealPeriodLunch
	case hour >= 17:
		return MealPeriodDinner
	default:
		return MealPeriodOther
	}
}

// BookableSlots は指定日に予約可能な枠を開始時刻順で返します
// 当日の場合は開始済みの枠を除外します。開始時刻を解釈できない枠も除外します
func BookableSlots(slots []model.TimeSlot, date string, now time.Time) []model.TimeSlot {
	isToday := strings.TrimSpace(date) == now.Format(dateLayout)

	bookable := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if _, _, ok := ParseClock(slot.StartTime); !ok {
			continue
		}
		// 終了時刻は見ない。開始済みかどうかは開始時刻だけで決まる
		if isToday {
			if start, ok := startOn(date, slot.StartTime, now.Location()); ok && !start.After(now) {
				continue
			}
		}
		bookable = append(bookable, slot)
	}

	sort.SliceStable(bookable, func(i, j int) bool {
		hi, mi, _ := ParseClock(bookable[i].StartTime)
		hj, mj, _ := ParseClock(bookable[j].StartTime)
		return hi*60+mi < hj*60+mj
	})
	return bookable
}

// GroupByMealPeriod は枠を食事区分ごとにまとめます（各区分内の順序は保持）
func GroupByMealPeriod(slots []model.TimeSlot) map[MealPeriod][]model.TimeSlot {
	grouped := make(map[MealPeriod][]model.TimeSlot)
	for _, slot := range slots {
		period := MealPeriodOf(slot)
		grouped[period] = append(grouped[period], slot)
	}
	return grouped
}
