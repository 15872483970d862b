package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"runtime/debug"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/config"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/publisher"
	"github.com/uma-arai/sbcntr-dining-batch/internal/common/utils"
	"github.com/uma-arai/sbcntr-dining-batch/internal/service/batch"
)

const (
	projectName = "sbcntr-dining-snapshot"
)

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "1回のスナップショット作成のタイムアウト時間")
	interval := flag.Duration("interval", 0, "スナップショットの作成間隔（0の場合は1回だけ実行）。SNAPSHOT_INTERVALより優先")
	query := flag.String("query", "", "LIVEの注文を注文ID・ユーザー名・テーブル番号で絞り込む検索文字列")
	flag.Parse()

	// 最後の引数として渡されたタスクトークンを取得
	// ENV=LOCALの場合はタスクトークンを取得しない
	taskToken := "DUMMY_TASK_TOKEN"
	if os.Getenv("ENV") != "LOCAL" {
		taskToken = flag.Arg(flag.NArg() - 1)
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(taskToken)
	if err != nil {
		log.Fatalf("Failed to load config: %v\nStack trace:\n%s", err, debug.Stack())
	}
	if *interval > 0 {
		cfg.SnapshotInterval = *interval
	}

	// 単発実行は結果をStep Functionsに返すためタスクトークンが必須
	if cfg.SnapshotInterval == 0 && taskToken == "" {
		log.Fatalf("Task token is required")
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

	// NATS_URLが設定されている場合のみスナップショットを配信
	var pub publisher.Publisher
	if cfg.NATS.URL != "" {
		natsPub, err := publisher.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to create NATS publisher: %v\nStack trace:\n%s", err, debug.Stack())
		}
		defer natsPub.Close()
		pub = natsPub
		log.Printf("Publishing snapshots to %s on %s", cfg.NATS.Subject, cfg.NATS.URL)
	}

	// コンテキストの作成
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// サービスの初期化
	service, err := batch.NewSnapshotBatchService(ctx, cfg, taskClient, pub)
	if err != nil {
		log.Fatalf("Failed to create service: %v\nStack trace:\n%s", err, debug.Stack())
	}
	defer service.Close()
	service.SetArgs(*query)

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		// セグメントにメタデータを追加
		if err := seg.AddMetadata("task_token", taskToken); err != nil {
			log.Printf("Failed to add task_token metadata: %v", err)
		}
		if err := seg.AddMetadata("interval", cfg.SnapshotInterval.String()); err != nil {
			log.Printf("Failed to add interval metadata: %v", err)
		}
	}

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// バッチ処理の実行
	errChan := make(chan error, 1)
	go func() {
		if cfg.SnapshotInterval > 0 {
			log.Printf("Starting snapshot loop every %v", cfg.SnapshotInterval)
			errChan <- utils.RunEvery(ctx, cfg.SnapshotInterval, *timeout, service.Run)
			return
		}
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	// シグナルまたはエラーの待機
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			log.Printf("Batch process failed: %v", err)

			// ローカル環境以外の場合のみStep Functionsのエラー通知を行う
			if err := batch.SendTaskFailure(context.Background(), taskClient, taskToken, err); err != nil {
				log.Printf("Failed to send task failure: %v\nStack trace:\n%s", err, debug.Stack())
			}

			os.Exit(1)
		}

		// ローカルでは直近のスナップショットを標準出力に出す
		if os.Getenv("ENV") == "LOCAL" {
			out, err := json.MarshalIndent(service.Last(), "", "  ")
			if err != nil {
				log.Fatalf("Failed to marshal snapshot: %v", err)
			}
			fmt.Println(string(out))
		}
		log.Println("Batch process completed successfully")
	}
}
