package session

import (
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/lifecycle"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// BuildSnapshot は分類・操作可否・グループ分けをまとめて実行します
// 区分ごとの件数は管理画面の振り分けと同じ結果から数えます。入力の注文は変更しません
func BuildSnapshot(orders []model.Order, now time.Time) model.Snapshot {
	snapshot := model.NewSnapshot(now)
	for category, bucket := range lifecycle.Partition(orders, now) {
		snapshot.Counts[category] = len(bucket)
	}

	grouping := Group(orders, now)
	for _, entry := range grouping.Active {
		snapshot.Active = append(snapshot.Active, viewOf(entry, now))
	}
	for _, entry := range grouping.History {
		snapshot.History = append(snapshot.History, viewOf(entry, now))
	}
	return snapshot
}

func viewOf(entry Entry, now time.Time) model.OrderView {
	classification := lifecycle.Classify(entry.Order, now)
	return model.OrderView{
		Order:         entry.Order,
		Category:      classification.Category,
		IsStarted:     classification.IsStarted,
		Permissions:   lifecycle.Evaluate(entry.Order, now),
		DisplayStatus: entry.DisplayStatus,
	}
}
