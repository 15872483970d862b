package lifecycle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

var allStatuses = []model.OrderStatus{
	model.OrderStatusPlaced,
	model.OrderStatusOrdered,
	model.OrderStatusPreparing,
	model.OrderStatusReady,
	model.OrderStatusServed,
	model.OrderStatusCompleted,
	model.OrderStatusCancelled,
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 19, hour, minute, 0, 0, time.Local)
}

// 18:00〜20:00 の当日予約に紐づく注文
func seated(status model.OrderStatus) model.Order {
	return model.Order{
		ID:     101,
		User:   model.User{Username: "asha"},
		Status: status,
		Reservation: &model.Reservation{
			ID:       7,
			Date:     "2026-10-19",
			TimeSlot: &model.TimeSlot{ID: 3, StartTime: "18:00", EndTime: "20:00"},
			Table:    &model.Table{TableNumber: 4, Capacity: 2},
		},
		CreatedAt: at(12, 0),
	}
}

func walkIn(status model.OrderStatus) model.Order {
	return model.Order{ID: 202, User: model.User{Username: "ravi"}, Status: status, CreatedAt: at(12, 0)}
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		order   model.Order
		now     time.Time
		want    model.Category
		started bool
	}{
		{"枠終了後の未着手はEXPIRED", seated(model.OrderStatusPlaced), at(20, 15), model.CategoryExpired, false},
		{"枠内の提供済みはLIVE", seated(model.OrderStatusServed), at(19, 0), model.CategoryLive, true},
		{"枠終了後の提供済みはSERVED", seated(model.OrderStatusServed), at(20, 30), model.CategoryServed, true},
		{"枠終了後の完了はSERVED", seated(model.OrderStatusCompleted), at(21, 0), model.CategoryServed, true},
		{"枠終了後の調理中はLIVE", seated(model.OrderStatusPreparing), at(20, 30), model.CategoryLive, true},
		{"枠終了後の準備完了はLIVE", seated(model.OrderStatusReady), at(20, 30), model.CategoryLive, true},
		{"枠開始前の注文はLIVE", seated(model.OrderStatusOrdered), at(17, 0), model.CategoryLive, false},
		{"終了時刻ちょうどはまだLIVE", seated(model.OrderStatusPlaced), at(20, 0), model.CategoryLive, false},
		{"ウォークインの提供済みはLIVE", walkIn(model.OrderStatusServed), at(23, 0), model.CategoryLive, true},
		{"ウォークインの未着手はLIVE", walkIn(model.OrderStatusPlaced), at(23, 0), model.CategoryLive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.order, tt.now)
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.started, got.IsStarted)
		})
	}
}

func TestClassify_CancelledIsAlwaysExpired(t *testing.T) {
	orders := []model.Order{seated(model.OrderStatusCancelled), walkIn(model.OrderStatusCancelled)}
	for _, order := range orders {
		for hour := 0; hour < 24; hour++ {
			got := Classify(order, at(hour, 0))
			assert.Equal(t, model.CategoryExpired, got.Category, "order %d at %02d:00", order.ID, hour)
		}
	}
}

func TestClassify_MalformedSlotFailsOpen(t *testing.T) {
	order := seated(model.OrderStatusPlaced)
	order.Reservation.TimeSlot.EndTime = "late"

	got := Classify(order, at(23, 59))
	assert.Equal(t, model.CategoryLive, got.Category)
}

func TestEvaluate_TooEarlyToPrepare(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusPlaced), at(17, 20))

	assert.False(t, perm.CanPrepare)
	assert.False(t, perm.CanServe)
	assert.True(t, perm.CanCancel)
	assert.Contains(t, perm.Message, "5:30 PM")
	assert.Equal(t, "You can cancel until 5:30 PM", perm.CancelMessage)
	require.NotNil(t, perm.CancelCutoff)
	assert.Equal(t, at(17, 30), *perm.CancelCutoff)
}

func TestEvaluate_PrepareWindowOpen(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusPlaced), at(17, 35))

	assert.True(t, perm.CanPrepare)
	assert.False(t, perm.CanServe, "提供は枠開始まで不可")
	assert.False(t, perm.CanCancel)
	assert.Equal(t, "Cancellation window closed (preparation started at 5:30 PM)", perm.CancelMessage)
}

func TestEvaluate_PrepareStartBoundary(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusOrdered), at(17, 30))

	assert.True(t, perm.CanPrepare)
	assert.False(t, perm.CanCancel)
}

func TestEvaluate_WithinSlot(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusPreparing), at(18, 30))

	assert.False(t, perm.CanPrepare, "調理開始済み")
	assert.True(t, perm.CanServe)
	assert.False(t, perm.CanCancel)
}

func TestEvaluate_ExpiredUnstarted(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusPlaced), at(20, 15))

	assert.False(t, perm.CanPrepare)
	assert.False(t, perm.CanServe)
	assert.False(t, perm.CanCancel)
	assert.Equal(t, msgSlotExpired, perm.Message)
}

func TestEvaluate_ExpiredButStartedCanStillServe(t *testing.T) {
	perm := Evaluate(seated(model.OrderStatusPreparing), at(20, 15))

	assert.True(t, perm.CanServe)
	assert.False(t, perm.CanPrepare)
}

func TestEvaluate_ServedDisablesServe(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderStatusServed, model.OrderStatusCompleted} {
		perm := Evaluate(seated(status), at(19, 0))
		assert.False(t, perm.CanServe, status)
		assert.False(t, perm.CanPrepare, status)
		assert.False(t, perm.CanCancel, status)
	}
}

func TestEvaluate_WalkInIsUnconstrained(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderStatusPlaced, model.OrderStatusOrdered} {
		for hour := 0; hour < 24; hour += 3 {
			perm := Evaluate(walkIn(status), at(hour, 0))
			assert.True(t, perm.CanPrepare, "%s at %02d:00", status, hour)
			assert.True(t, perm.CanServe, "%s at %02d:00", status, hour)
			assert.True(t, perm.CanCancel, "%s at %02d:00", status, hour)
			assert.Nil(t, perm.CancelCutoff)
			assert.Equal(t, msgWalkIn, perm.Message)
		}
	}
}

func TestEvaluate_CancelCutoffJSON(t *testing.T) {
	walkInJSON, err := json.Marshal(Evaluate(walkIn(model.OrderStatusPlaced), at(12, 0)))
	require.NoError(t, err)
	assert.NotContains(t, string(walkInJSON), "cancelCutoff")

	seatedJSON, err := json.Marshal(Evaluate(seated(model.OrderStatusPlaced), at(12, 0)))
	require.NoError(t, err)
	assert.Contains(t, string(seatedJSON), `"cancelCutoff":"2026-10-19T17:30:00`)
}

func TestEvaluate_StartedWalkInCannotCancel(t *testing.T) {
	perm := Evaluate(walkIn(model.OrderStatusPreparing), at(12, 0))

	assert.False(t, perm.CanCancel)
	assert.Equal(t, msgNotCancellable, perm.CancelMessage)
}

func TestPureFunctions_AreIdempotent(t *testing.T) {
	now := at(19, 10)
	for _, status := range allStatuses {
		order := seated(status)
		assert.Equal(t, Classify(order, now), Classify(order, now))
		assert.Equal(t, Evaluate(order, now), Evaluate(order, now))
	}
}

func TestPartition(t *testing.T) {
	orders := []model.Order{
		seated(model.OrderStatusPlaced),
		seated(model.OrderStatusServed),
		seated(model.OrderStatusPreparing),
		walkIn(model.OrderStatusCancelled),
	}
	orders[1].ID = 102
	orders[2].ID = 103

	buckets := Partition(orders, at(20, 30))

	require.Len(t, buckets[model.CategoryLive], 1)
	assert.Equal(t, int64(103), buckets[model.CategoryLive][0].ID)
	require.Len(t, buckets[model.CategoryServed], 1)
	assert.Equal(t, int64(102), buckets[model.CategoryServed][0].ID)
	require.Len(t, buckets[model.CategoryExpired], 2)
	assert.Equal(t, int64(101), buckets[model.CategoryExpired][0].ID)
	assert.Equal(t, int64(202), buckets[model.CategoryExpired][1].ID)
}
