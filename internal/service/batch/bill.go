package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/uma-arai/sbcntr-dining-batch/internal/billing"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/config"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/database"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/utils"
	"github.com/uma-arai/sbcntr-dining-batch/internal/display"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/repository"
)

// BillRequest は請求バッチの入力です
// Cart が指定された場合は注文ではなくカートの合計を計算します
type BillRequest struct {
	OrderID      int64         `json:"order_id"`
	Consolidated bool          `json:"consolidated"`
	Cart         map[int64]int `json:"cart,omitempty"`
}

// BillResult は請求バッチの出力です
// 統合対象がない場合は OK=false とし、Message に理由を入れます
type BillResult struct {
	OK      bool          `json:"ok"`
	Message string        `json:"message,omitempty"`
	Bill    *model.Bill   `json:"bill,omitempty"`
	Receipt *display.Bill `json:"receipt,omitempty"`
}

// BillBatchService は請求計算バッチを担当します
type BillBatchService struct {
	args      BillRequest
	db        *database.DB
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	sfnClient TaskClient
	cfg       *config.Config
	result    *BillResult
}

// NewBillBatchService は新しいBillBatchServiceを作成します
func NewBillBatchService(ctx context.Context, cfg *config.Config, sfnClient TaskClient) (*BillBatchService, error) {
	db, err := database.NewDB(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	// database.DBをrepository.DBに変換
	repoDb := &repository.DB{DB: db.DB}

	return &BillBatchService{
		db:        db,
		orderRepo: repository.NewOrderRepository(repoDb),
		menuRepo:  repository.NewMenuRepository(repoDb),
		sfnClient: sfnClient,
		cfg:       cfg,
	}, nil
}

// Close は終了処理を行います
func (s *BillBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetArgs は請求バッチの引数を設定します
func (s *BillBatchService) SetArgs(args BillRequest) {
	s.args = args
}

// Result は直近の実行結果を返します
func (s *BillBatchService) Result() *BillResult {
	return s.result
}

// Run は請求を計算し、表示用の文字列と合わせてStep Functionsに返します
func (s *BillBatchService) Run(ctx context.Context) error {
	// X-Rayセグメントの作成
	ctx, seg := xray.BeginSubsegment(ctx, "BillBatchService.Run")
	defer seg.Close(nil)

	startTime := time.Now()

	if err := seg.AddMetadata("order_id", s.args.OrderID); err != nil {
		log.Printf("Failed to add order_id metadata: %v", err)
	}

	var (
		result *BillResult
		err    error
	)
	if len(s.args.Cart) > 0 {
		result, err = s.cartTotals(ctx)
	} else {
		result, err = s.orderBill(ctx)
	}
	if err != nil {
		seg.Close(err)
		return utils.GetStackWithError(err)
	}
	s.result = result

	if err := sendTaskSuccess(ctx, s.sfnClient, s.cfg.SFN.TaskToken, result); err != nil {
		seg.Close(err)
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	log.Printf("Bill batch process completed. OK: %t, Duration: %v", result.OK, time.Since(startTime))
	return nil
}

// orderBill は単一注文の請求、または同じ予約の注文をまとめた統合請求を計算します
func (s *BillBatchService) orderBill(ctx context.Context) (*BillResult, error) {
	order, err := s.orderRepo.GetOrder(ctx, s.args.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", s.args.OrderID, err)
	}

	if !s.args.Consolidated {
		bill := billing.BillFor(*order)
		return newBillResult(bill, order), nil
	}

	var sessionOrders []model.Order
	if reservationID, ok := order.ReservationID(); ok {
		sessionOrders, err = s.orderRepo.ListByReservation(ctx, reservationID)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for reservation %d: %w", reservationID, err)
		}
	}

	bill, err := billing.ConsolidatedBillForOrder(*order, sessionOrders)
	if errors.Is(err, billing.ErrNoConsolidationTarget) {
		log.Printf("Order %d has no consolidation target: %v", order.ID, err)
		return &BillResult{OK: false, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Consolidated %d orders for order %d", bill.OrderCount, order.ID)
	return newBillResult(bill, order), nil
}

func (s *BillBatchService) cartTotals(ctx context.Context) (*BillResult, error) {
	menu, err := s.menuRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	bill := billing.CartTotals(menu, s.args.Cart)
	return newBillResult(bill, nil), nil
}

func newBillResult(bill model.Bill, order *model.Order) *BillResult {
	var receipt display.Bill
	if order != nil {
		receipt = display.FormatOrderBill(bill, *order)
	} else {
		receipt = display.FormatBill(bill, nil, "")
	}
	return &BillResult{OK: true, Bill: &bill, Receipt: &receipt}
}
