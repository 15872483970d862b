package session

import (
	"sort"
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/schedule"
)

// Entry はグループ分けされた注文です
// DisplayStatus は表示用のステータスで、元の Order.Status は変更しません
type Entry struct {
	Order         model.Order
	DisplayStatus model.OrderStatus
}

// Grouping は進行中と履歴の2つのバケットです
type Grouping struct {
	Active  []Entry
	History []Entry
}

// IsHistory は注文が履歴側に属するかを返します
// 予約ありは枠の終了後、予約なしは提供済み・完了・キャンセル済みの場合に履歴とします
func IsHistory(order model.Order, now time.Time) bool {
	if order.Reservation != nil {
		return schedule.WindowsFor(order.Reservation, now).Elapsed(now)
	}
	return order.Status.IsServed() || order.Status.IsCancelled()
}

// EffectiveTime は並び替えの基準時刻です。予約の日付と開始時刻、解釈できなければ作成日時を使います
// 終了時刻は見ません
func EffectiveTime(order model.Order, now time.Time) time.Time {
	if start, ok := schedule.SlotStart(order.Reservation, now); ok {
		return start
	}
	return order.CreatedAt
}

// Group は注文を進行中と履歴に分け、進行中は古い順、履歴は新しい順に並べます
// 履歴側に入った未着手（PLACED / ORDERED）の注文は表示上 CANCELLED とします
func Group(orders []model.Order, now time.Time) Grouping {
	grouping := Grouping{
		Active:  make([]Entry, 0),
		History: make([]Entry, 0),
	}

	for _, order := range orders {
		entry := Entry{Order: order, DisplayStatus: order.Status}
		if !IsHistory(order, now) {
			grouping.Active = append(grouping.Active, entry)
			continue
		}
		if order.Status.IsInitial() {
			entry.DisplayStatus = model.OrderStatusCancelled
		}
		grouping.History = append(grouping.History, entry)
	}

	sortEntries(grouping.Active, now, false)
	sortEntries(grouping.History, now, true)
	return grouping
}

// sortEntries は基準時刻で並べます。同時刻の場合は注文IDで順序を固定します
func sortEntries(entries []Entry, now time.Time, descending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti := EffectiveTime(entries[i].Order, now)
		tj := EffectiveTime(entries[j].Order, now)
		if ti.Equal(tj) {
			if descending {
				return entries[i].Order.ID > entries[j].Order.ID
			}
			return entries[i].Order.ID < entries[j].Order.ID
		}
		if descending {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}
