package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/common/utils"
	"github.com/uma-arai/capachica-client/internal/model"
)

// PaymentReviewBatchService は確認待ちの支払いを集めてワークフローへ渡します
type PaymentReviewBatchService struct {
	*backend
	now func() time.Time
}

// NewPaymentReviewBatchService は新しいPaymentReviewBatchServiceを作成します
func NewPaymentReviewBatchService(ctx context.Context, cfg *config.Config, sfnClient *sfn.Client) (*PaymentReviewBatchService, error) {
	b, err := openBackend(ctx, cfg, sfnClient)
	if err != nil {
		return nil, err
	}
	return &PaymentReviewBatchService{backend: b, now: time.Now}, nil
}

// Run は支払い確認バッチを実行します
func (s *PaymentReviewBatchService) Run(ctx context.Context) error {
	ctx, seg := xray.BeginSubsegment(ctx, "PaymentReviewBatchService.Run")
	defer seg.Close(nil)

	startTime := s.now()

	if err := s.requireSession(ctx); err != nil {
		return utils.GetStackWithError(err)
	}

	res := s.payments.Mine(ctx)
	if !res.OK() {
		return utils.GetStackWithError(fmt.Errorf("failed to fetch payments: %w", res.Err()))
	}

	task := model.NewPaymentReviewTask(res.Value, startTime.UTC())
	log.Printf("Found %d payments awaiting review out of %d", len(task.Payments), len(res.Value))

	if err := s.sendTaskSuccess(ctx, task); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := s.now().Sub(startTime)
	if seg != nil {
		if err := seg.AddMetadata("duration", duration.String()); err != nil {
			log.Printf("Failed to add duration metadata: %v", err)
		}
		if err := seg.AddMetadata("awaiting_review", len(task.Payments)); err != nil {
			log.Printf("Failed to add awaiting_review metadata: %v", err)
		}
	}

	log.Printf("Payment review batch process completed successfully. Duration: %v", duration)
	return nil
}
