package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/uma-arai/sbcntr-dining-batch/internal/common/models"
	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

type ReservationRepository interface {
	ListFrom(ctx context.Context, date string) ([]model.Reservation, error)
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
}

type ReservationRepositoryImpl struct {
	db *DB
}

func NewReservationRepository(db *DB) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{db: db}
}

// ListFrom は指定日（YYYY-MM-DD）以降の予約を枠・テーブル付きで取得します
func (r *ReservationRepositoryImpl) ListFrom(ctx context.Context, date string) ([]model.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationRepository.ListFrom")
	defer seg.Close(nil)

	query := `
		SELECT
			r.id,
			to_char(r.reservation_date, 'YYYY-MM-DD') AS reservation_date,
			ts.id AS time_slot_id,
			to_char(ts.start_time, 'HH24:MI') AS start_time,
			to_char(ts.end_time, 'HH24:MI') AS end_time,
			t.id AS table_id,
			t.table_number,
			t.capacity
		FROM reservations r
		LEFT JOIN time_slots ts ON ts.id = r.time_slot_id
		LEFT JOIN restaurant_tables t ON t.id = r.table_id
		WHERE r.reservation_date >= $1::date
		ORDER BY r.reservation_date, ts.start_time, r.id
	`

	var rows []models.ReservationRow
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query reservations from %s: %w", date, err)
	}

	reservations := make([]model.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, *row.ToReservation())
	}
	return reservations, nil
}

// ListTimeSlots は予約枠の一覧を取得します
func (r *ReservationRepositoryImpl) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationRepository.ListTimeSlots")
	defer seg.Close(nil)

	query := `
		SELECT
			id,
			to_char(start_time, 'HH24:MI') AS start_time,
			to_char(end_time, 'HH24:MI') AS end_time
		FROM time_slots
		ORDER BY start_time, id
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query time slots: %w", err)
	}
	defer rows.Close()

	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var slot model.TimeSlot
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime); err != nil {
			seg.Close(err)
			return nil, fmt.Errorf("failed to scan time slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err = rows.Err(); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("error iterating time slot rows: %w", err)
	}

	return slots, nil
}
