package lifecycle

import (
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/schedule"
)

// Classification は Classify の結果です
type Classification struct {
	Category  model.Category
	IsStarted bool
}

// IsStarted は調理が始まっている、または終端状態に達しているかを返します
func IsStarted(status model.OrderStatus) bool {
	return !status.IsInitial()
}

// Classify は注文を LIVE / SERVED / EXPIRED のいずれかに分類します
// 判定は優先順位付きで、先に一致した規則で確定します
//  1. CANCELLED は常に EXPIRED
//  2. 枠終了後: 提供済みなら SERVED、未着手なら EXPIRED、調理中なら LIVE
//  3. それ以外は LIVE（枠内の提供済みも同じ席での追加注文のため LIVE のまま）
func Classify(order model.Order, now time.Time) Classification {
	started := IsStarted(order.Status)

	if order.Status.IsCancelled() {
		return Classification{Category: model.CategoryExpired, IsStarted: started}
	}

	w := schedule.WindowsFor(order.Reservation, now)
	if w.Elapsed(now) {
		switch {
		case order.Status.IsServed():
			return Classification{Category: model.CategoryServed, IsStarted: started}
		case !started:
			return Classification{Category: model.CategoryExpired, IsStarted: started}
		default:
			return Classification{Category: model.CategoryLive, IsStarted: started}
		}
	}

	return Classification{Category: model.CategoryLive, IsStarted: started}
}

// Partition は管理画面向けに注文を区分ごとに振り分けます。入力順は保持します
func Partition(orders []model.Order, now time.Time) map[model.Category][]model.Order {
	buckets := map[model.Category][]model.Order{
		model.CategoryLive:    {},
		model.CategoryServed:  {},
		model.CategoryExpired: {},
	}
	for _, order := range orders {
		category := Classify(order, now).Category
		buckets[category] = append(buckets[category], order)
	}
	return buckets
}
