package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/config"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/utils"
	"github.com/uma-arai/sbcntr-dining-batch/internal/service/batch"
)

const (
	projectName = "sbcntr-dining-bill"
)

// 使い方: bill [-timeout 1m] '<request json>' <task token>
// ENV=LOCALの場合はタスクトークンを省略できます
func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", time.Minute, "バッチ処理のタイムアウト時間")
	flag.Parse()

	request, err := parseRequest(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to parse bill request: %v", err)
	}

	taskToken := "DUMMY_TASK_TOKEN"
	if os.Getenv("ENV") != "LOCAL" {
		taskToken = flag.Arg(1)
		if taskToken == "" {
			log.Fatalf("Task token is required")
		}
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(taskToken)
	if err != nil {
		log.Fatalf("Failed to load config: %v\nStack trace:\n%s", err, debug.Stack())
	}

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000", // X-Rayデーモンのアドレス
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Printf("Failed to configure X-Ray: %v", err)
			// X-Ray設定失敗時はデフォルトの設定を使用
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				log.Fatalf("Failed to configure default X-Ray settings: %v", configErr)
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	// Step Functionsクライアントの初期化
	var taskClient batch.TaskClient
	if os.Getenv("ENV") != "LOCAL" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v\nStack trace:\n%s", err, debug.Stack())
		}
		taskClient = sfn.NewFromConfig(awsCfg)
	}

	// コンテキストを作成
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 請求バッチサービスを作成
	service, err := batch.NewBillBatchService(ctx, cfg, taskClient)
	if err != nil {
		log.Fatalf("Failed to create bill batch service: %v", err)
	}
	defer service.Close()
	service.SetArgs(request)

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		// セグメントにメタデータを追加
		if err := seg.AddMetadata("task_token", taskToken); err != nil {
			log.Printf("Failed to add task_token metadata: %v", err)
		}
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			log.Printf("Failed to add timeout metadata: %v", err)
		}
	}

	// シグナルハンドリング
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// バッチ処理の実行
	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	// シグナルを待機
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Printf("Batch process failed: %v", err)

			if err := batch.SendTaskFailure(context.Background(), taskClient, taskToken, err); err != nil {
				log.Printf("Failed to send task failure: %v\nStack trace:\n%s", err, debug.Stack())
			}

			os.Exit(1)
		}

		// ローカルでは結果を標準出力に出す
		if os.Getenv("ENV") == "LOCAL" {
			out, err := json.MarshalIndent(service.Result(), "", "  ")
			if err != nil {
				log.Fatalf("Failed to marshal result: %v", err)
			}
			fmt.Println(string(out))
		}
		log.Println("Batch process completed successfully")
	}
}

// parseRequest は引数のJSONを請求リクエストとして解析します
func parseRequest(raw string) (batch.BillRequest, error) {
	var request batch.BillRequest
	if raw == "" {
		return request, fmt.Errorf("bill request is required")
	}
	if err := json.Unmarshal([]byte(raw), &request); err != nil {
		return request, fmt.Errorf("failed to parse bill request: %w", err)
	}
	if request.OrderID <= 0 && len(request.Cart) == 0 {
		return request, fmt.Errorf("either order_id or cart is required")
	}
	return request, nil
}
