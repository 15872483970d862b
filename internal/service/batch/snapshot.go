package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/uma-arai/sbcntr-dining-batch/internal/common/config"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/database"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/publisher"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/utils"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/repository"
	"github.com/uma-arai/sbcntr-dining-batch/internal/schedule"
	"github.com/uma-arai/sbcntr-dining-batch/internal/session"
)

// SnapshotMessage はNATSへ配信する1回分の注文ビューです
// LiveMatches は Query に一致する LIVE の注文IDです（空の Query は LIVE すべて）
type SnapshotMessage struct {
	Snapshot              model.Snapshot                           `json:"snapshot"`
	Query                 string                                   `json:"query,omitempty"`
	LiveMatches           []int64                                  `json:"liveMatches"`
	OrderableReservations []session.OrderableReservation           `json:"orderableReservations"`
	BookableSlots         map[schedule.MealPeriod][]model.TimeSlot `json:"bookableSlots"`
}

// SnapshotBatchService は注文スナップショットの作成を担当します
type SnapshotBatchService struct {
	query           string
	db              *database.DB
	orderRepo       repository.OrderRepository
	reservationRepo repository.ReservationRepository
	publisher       publisher.Publisher
	sfnClient       TaskClient
	cfg             *config.Config
	now             func() time.Time
	last            *SnapshotMessage
}

// NewSnapshotBatchService は新しいSnapshotBatchServiceを作成します
// pub が nil の場合はスナップショットを配信しません
func NewSnapshotBatchService(ctx context.Context, cfg *config.Config, sfnClient TaskClient, pub publisher.Publisher) (*SnapshotBatchService, error) {
	db, err := database.NewDB(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	// database.DBをrepository.DBに変換
	repoDb := &repository.DB{DB: db.DB}

	return &SnapshotBatchService{
		db:              db,
		orderRepo:       repository.NewOrderRepository(repoDb),
		reservationRepo: repository.NewReservationRepository(repoDb),
		publisher:       pub,
		sfnClient:       sfnClient,
		cfg:             cfg,
		now:             cfg.Now,
	}, nil
}

// Close は終了処理を行います
func (s *SnapshotBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetArgs は LIVE の注文を絞り込む検索文字列を設定します
func (s *SnapshotBatchService) SetArgs(query string) {
	s.query = query
}

// Last は直近に作成したスナップショットを返します
func (s *SnapshotBatchService) Last() *SnapshotMessage {
	return s.last
}

// Run は注文を読み込み、分類・操作可否・グループ分けを再計算して配信します
// 単発実行（SnapshotInterval が0）の場合は要約をStep Functionsに返します
func (s *SnapshotBatchService) Run(ctx context.Context) error {
	// X-Rayセグメントの作成
	ctx, seg := xray.BeginSubsegment(ctx, "SnapshotBatchService.Run")
	defer seg.Close(nil)

	startTime := time.Now()

	message, err := s.buildMessage(ctx)
	if err != nil {
		seg.Close(err)
		return utils.GetStackWithError(fmt.Errorf("failed to build snapshot: %w", err))
	}
	s.last = message

	if err := s.publish(ctx, message); err != nil {
		seg.Close(err)
		return utils.GetStackWithError(fmt.Errorf("failed to publish snapshot: %w", err))
	}

	if s.cfg.SnapshotInterval == 0 {
		if err := sendTaskSuccess(ctx, s.sfnClient, s.cfg.SFN.TaskToken, message.Snapshot.Summarize()); err != nil {
			seg.Close(err)
			return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
		}
	}

	duration := time.Since(startTime)

	// セグメントにメタデータを追加
	if err := seg.AddMetadata("snapshot_id", message.Snapshot.ID.String()); err != nil {
		log.Printf("Failed to add snapshot_id metadata: %v", err)
	}
	if err := seg.AddMetadata("duration", duration.String()); err != nil {
		log.Printf("Failed to add duration metadata: %v", err)
	}

	log.Printf("Snapshot %s completed. Active: %d, History: %d, Live: %d, Served: %d, Expired: %d, Duration: %v",
		message.Snapshot.ID,
		len(message.Snapshot.Active),
		len(message.Snapshot.History),
		message.Snapshot.Counts[model.CategoryLive],
		message.Snapshot.Counts[model.CategoryServed],
		message.Snapshot.Counts[model.CategoryExpired],
		duration,
	)
	return nil
}

func (s *SnapshotBatchService) buildMessage(ctx context.Context) (*SnapshotMessage, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "SnapshotBatchService.buildMessage")
	defer seg.Close(nil)

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	log.Printf("Found %d orders", len(orders))

	// 読み込み後に現在時刻を取得し、1回の実行内では同じ時刻を使う
	now := s.now()
	today := now.Format("2006-01-02")

	reservations, err := s.reservationRepo.ListFrom(ctx, today)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	slots, err := s.reservationRepo.ListTimeSlots(ctx)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}

	matches := session.SearchLive(orders, s.query, now)
	liveMatches := make([]int64, 0, len(matches))
	for _, order := range matches {
		liveMatches = append(liveMatches, order.ID)
	}

	return &SnapshotMessage{
		Snapshot:              session.BuildSnapshot(orders, now),
		Query:                 s.query,
		LiveMatches:           liveMatches,
		OrderableReservations: session.OrderableReservations(reservations, now),
		BookableSlots:         schedule.GroupByMealPeriod(schedule.BookableSlots(slots, today, now)),
	}, nil
}

func (s *SnapshotBatchService) publish(ctx context.Context, message *SnapshotMessage) error {
	if s.publisher == nil {
		return nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return s.publisher.Publish(ctx, s.cfg.NATS.Subject, body)
}
