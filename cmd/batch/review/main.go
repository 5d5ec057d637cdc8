package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/common/utils"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/service/batch"
)

const (
	projectName = "capachica-payment-decision"
)

// 使い方: review [-timeout 5m] '<decisions JSON>' <task token>
// ENV=LOCALの場合はタスクトークンを省略できます
func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "バッチ処理のタイムアウト時間")
	flag.Parse()

	// 最初の引数は判断の一覧、最後の引数はタスクトークン
	taskToken := "DUMMY_TASK_TOKEN"
	if !config.IsLocal() {
		if flag.NArg() < 2 {
			log.Fatalf("Decisions and task token are required")
		}
		taskToken = flag.Arg(flag.NArg() - 1)
	}
	if flag.NArg() < 1 {
		log.Fatalf("Decisions are required")
	}

	decisions, err := model.ParseReviewDecisions([]byte(flag.Arg(0)))
	if err != nil {
		log.Fatalf("Failed to parse decisions: %v", err)
	}

	cfg, err := config.LoadConfig(taskToken)
	if err != nil {
		log.Fatalf("Failed to load config: %v\nStack trace:\n%s", err, debug.Stack())
	}

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000",
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Printf("Failed to configure X-Ray: %v", err)
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				log.Fatalf("Failed to configure default X-Ray settings: %v", configErr)
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	var sfnClient *sfn.Client
	if !config.IsLocal() {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v\nStack trace:\n%s", err, debug.Stack())
		}
		sfnClient = sfn.NewFromConfig(awsCfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service, err := batch.NewReviewDecisionBatchService(ctx, cfg, sfnClient)
	if err != nil {
		log.Fatalf("Failed to create review decision batch service: %v", err)
	}
	defer service.Close()
	service.SetArgs(decisions)

	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("decisions", decisions); err != nil {
			log.Printf("Failed to add decisions metadata: %v", err)
		}
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			log.Printf("Failed to add timeout metadata: %v", err)
		}
	}

	// シグナルハンドリング
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Printf("Batch process failed: %v", err)

			if !config.IsLocal() && sfnClient != nil {
				_, sendErr := sfnClient.SendTaskFailure(context.Background(), &sfn.SendTaskFailureInput{
					TaskToken: aws.String(taskToken),
					Error:     aws.String("PaymentDecisionFailed"),
					Cause:     aws.String(err.Error()),
				})
				if sendErr != nil {
					log.Printf("Failed to send task failure: %v\nStack trace:\n%s", sendErr, debug.Stack())
				}
			}

			service.Close()
			os.Exit(1)
		}
		log.Println("Batch process completed successfully")
	}
}
