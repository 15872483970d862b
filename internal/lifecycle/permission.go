package lifecycle

import (
	"fmt"
	"time"

	"github.com/uma-arai/sbcntr-dining-batch/internal/display"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/schedule"
)

const (
	msgWalkIn         = "Walk-in / no specific slot restrictions."
	msgSlotExpired    = "Slot expired. Order cancelled."
	msgServeNotOpen   = "Serving opens at %s."
	msgTooEarly       = "Too early. Prepare starts at %s."
	msgCancelUntil    = "You can cancel until %s"
	msgCancelClosed   = "Cancellation window closed (preparation started at %s)"
	msgNotCancellable = "Order can no longer be cancelled"
)

// Evaluate はスタッフ操作（調理開始・提供）と利用者キャンセルの可否を返します
// 注文の状態は一切変更しません。CANCELLED 注文などの拒否は呼び出し側の責務です
func Evaluate(order model.Order, now time.Time) model.Permissions {
	w := schedule.WindowsFor(order.Reservation, now)
	started := IsStarted(order.Status)
	expired := w.Elapsed(now) && !started

	perm := model.Permissions{
		CanPrepare: true,
		CanServe:   true,
	}

	switch {
	case !w.HasSlot:
		perm.Message = msgWalkIn
	case now.Before(w.PrepareStart):
		perm.CanPrepare = false
		perm.Message = fmt.Sprintf(msgTooEarly, display.Clock(w.PrepareStart))
	case expired:
		perm.CanPrepare = false
		perm.Message = msgSlotExpired
	}

	if w.HasSlot && now.Before(w.SlotStart) {
		perm.CanServe = false
		if perm.Message == "" {
			perm.Message = fmt.Sprintf(msgServeNotOpen, display.Clock(w.SlotStart))
		}
	}
	if expired {
		perm.CanServe = false
	}

	// 状態による無効化
	if !order.Status.IsInitial() {
		perm.CanPrepare = false
	}
	if order.Status.IsServed() {
		perm.CanServe = false
	}

	perm.CanCancel, perm.CancelMessage = cancellation(order.Status, w, now)
	if w.HasSlot {
		cutoff := w.PrepareStart
		perm.CancelCutoff = &cutoff
	}
	return perm
}

// cancellation は利用者向けのキャンセル可否です
// 未着手の間のみ、かつ予約ありの場合は調理開始可能時刻より前に限ります
func cancellation(status model.OrderStatus, w schedule.Windows, now time.Time) (bool, string) {
	if !status.IsInitial() {
		return false, msgNotCancellable
	}
	if !w.HasSlot {
		return true, ""
	}
	cutoff := display.Clock(w.PrepareStart)
	if now.Before(w.PrepareStart) {
		return true, fmt.Sprintf(msgCancelUntil, cutoff)
	}
	return false, fmt.Sprintf(msgCancelClosed, cutoff)
}
