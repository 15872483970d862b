package utils

import (
	"context"
	"log"
	"time"
)

// RunEvery は fn を即時に1回実行し、その後 interval ごとに繰り返します
// 各回は timeout 付きで実行されます。個々の失敗はログに出して次の回を続けます
// ctx がキャンセルされると nil を返します
func RunEvery(ctx context.Context, interval, timeout time.Duration, fn func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := RunWithTimeout(ctx, timeout, fn); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("Scheduled run failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
