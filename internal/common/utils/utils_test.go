package utils

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunWithTimeout(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(context.Context) error
		wantErr error
		timeout bool
	}{
		{
			name: "正常終了",
			fn:   func(context.Context) error { return nil },
		},
		{
			name:    "エラーをそのまま返す",
			fn:      func(context.Context) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name: "タイムアウト",
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return nil
			},
			timeout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithTimeout(context.Background(), 20*time.Millisecond, tt.fn)
			switch {
			case tt.timeout:
				if err == nil || !strings.Contains(err.Error(), "timed out") {
					t.Errorf("expected timeout error, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestRunEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	fn := func(context.Context) error {
		if calls.Add(1) >= 3 {
			cancel()
		}
		return errors.New("transient")
	}

	done := make(chan error, 1)
	go func() {
		done <- RunEvery(ctx, 5*time.Millisecond, time.Second, fn)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunEvery() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunEvery did not stop after cancel")
	}

	if got := calls.Load(); got < 3 {
		t.Errorf("calls = %d, want >= 3", got)
	}
}

func TestGetStackWithError(t *testing.T) {
	if GetStackWithError(nil) != nil {
		t.Error("nil error should stay nil")
	}

	base := errors.New("base")
	err := GetStackWithError(base)
	if !errors.Is(err, base) {
		t.Error("wrapped error should match base")
	}
	if !strings.Contains(err.Error(), "Stack trace:") {
		t.Error("stack trace should be attached")
	}
}
