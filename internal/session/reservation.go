package session

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/lifecycle"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/schedule"
)

// OrderableReservation は注文先として選べる予約です
type OrderableReservation struct {
	Reservation model.Reservation
	// IsActive は現在が予約枠の時間内であることを表します
	IsActive bool
}

// OrderableReservations は進行中または未来の予約を開始時刻順で返します
// 日付や枠が欠けている予約は除外します。先頭が既定の選択肢です
func OrderableReservations(reservations []model.Reservation, now time.Time) []OrderableReservation {
	type candidate struct {
		item  OrderableReservation
		start time.Time
	}

	candidates := make([]candidate, 0, len(reservations))
	for _, r := range reservations {
		w := schedule.WindowsFor(&r, now)
		if !w.HasSlot {
			continue
		}
		switch {
		case w.InProgress(now):
			candidates = append(candidates, candidate{OrderableReservation{Reservation: r, IsActive: true}, w.SlotStart})
		case w.SlotStart.After(now):
			candidates = append(candidates, candidate{OrderableReservation{Reservation: r}, w.SlotStart})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].start.Before(candidates[j].start)
	})

	out := make([]OrderableReservation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.item)
	}
	return out
}

// SearchLive は LIVE の注文のうち、注文ID・ユーザー名・テーブル番号に query を含むものを返します
// ユーザー名は大文字小文字を区別しません。空の query は LIVE の注文をすべて返します
func SearchLive(orders []model.Order, query string, now time.Time) []model.Order {
	query = strings.ToLower(strings.TrimSpace(query))

	matches := make([]model.Order, 0)
	for _, order := range orders {
		if lifecycle.Classify(order, now).Category != model.CategoryLive {
			continue
		}
		if query == "" || matchesQuery(order, query) {
			matches = append(matches, order)
		}
	}
	return matches
}

func matchesQuery(order model.Order, query string) bool {
	if strings.Contains(strconv.FormatInt(order.ID, 10), query) {
		return true
	}
	if strings.Contains(strings.ToLower(order.User.Username), query) {
		return true
	}
	if n := order.Reservation.TableNumber(); n > 0 && strings.Contains(strconv.Itoa(n), query) {
		return true
	}
	return false
}
