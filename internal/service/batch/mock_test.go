package batch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sfn"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
	"github.com/uma-arai/sbcntr-dining-batch/internal/repository"
)

// MockOrderRepository はテスト用のモックリポジトリです
type MockOrderRepository struct {
	orders                  []model.Order
	listErr                 error
	listCalled              bool
	listByReservationCalled bool
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	m.listCalled = true
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.orders, nil
}

func (m *MockOrderRepository) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	for _, order := range m.orders {
		if order.ID == orderID {
			found := order
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", repository.ErrOrderNotFound, orderID)
}

func (m *MockOrderRepository) ListByReservation(ctx context.Context, reservationID int64) ([]model.Order, error) {
	m.listByReservationCalled = true
	var out []model.Order
	for _, order := range m.orders {
		if id, ok := order.ReservationID(); ok && id == reservationID {
			out = append(out, order)
		}
	}
	return out, nil
}

// MockReservationRepository はテスト用のモックリポジトリです
type MockReservationRepository struct {
	reservations []model.Reservation
	slots        []model.TimeSlot
	listFromDate string
}

func (m *MockReservationRepository) ListFrom(ctx context.Context, date string) ([]model.Reservation, error) {
	m.listFromDate = date
	return m.reservations, nil
}

func (m *MockReservationRepository) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	return m.slots, nil
}

// MockMenuRepository はテスト用のモックリポジトリです
type MockMenuRepository struct {
	items []model.MenuItem
}

func (m *MockMenuRepository) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	return m.items, nil
}

// MockPublisher は配信内容を記録します
type MockPublisher struct {
	subjects []string
	messages [][]byte
	err      error
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, msg []byte) error {
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockTaskClient はStep Functionsへの通知を記録します
type MockTaskClient struct {
	successes []*sfn.SendTaskSuccessInput
	failures  []*sfn.SendTaskFailureInput
}

func (m *MockTaskClient) SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error) {
	m.successes = append(m.successes, params)
	return &sfn.SendTaskSuccessOutput{}, nil
}

func (m *MockTaskClient) SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error) {
	m.failures = append(m.failures, params)
	return &sfn.SendTaskFailureOutput{}, nil
}
