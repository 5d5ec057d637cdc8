package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/common/utils"
	"github.com/uma-arai/capachica-client/internal/model"
)

// ReviewOutcome は1件の判断を適用した結果です
type ReviewOutcome struct {
	PaymentID int                 `json:"payment_id"`
	Action    model.ReviewAction  `json:"action"`
	Applied   bool                `json:"applied"`
	Status    model.PaymentStatus `json:"status,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// ReviewDecisionBatchService は確認ステップの判断を支払いに適用します
type ReviewDecisionBatchService struct {
	*backend
	args []model.ReviewDecision
}

// NewReviewDecisionBatchService は新しいReviewDecisionBatchServiceを作成します
func NewReviewDecisionBatchService(ctx context.Context, cfg *config.Config, sfnClient *sfn.Client) (*ReviewDecisionBatchService, error) {
	b, err := openBackend(ctx, cfg, sfnClient)
	if err != nil {
		return nil, err
	}
	return &ReviewDecisionBatchService{backend: b}, nil
}

// SetArgs は適用する判断を設定します
func (s *ReviewDecisionBatchService) SetArgs(args []model.ReviewDecision) {
	s.args = args
}

// Run は判断を順に適用し、最後に一覧を再取得して状態を確定させます
// 1件でも失敗した場合は残りを処理したうえでエラーを返します
func (s *ReviewDecisionBatchService) Run(ctx context.Context) error {
	ctx, seg := xray.BeginSubsegment(ctx, "ReviewDecisionBatchService.Run")
	defer seg.Close(nil)

	startTime := time.Now()

	if err := s.requireSession(ctx); err != nil {
		return utils.GetStackWithError(err)
	}

	outcomes := make([]ReviewOutcome, 0, len(s.args))
	var errs []error
	for _, d := range s.args {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := s.apply(ctx, d)
		if err != nil {
			log.Printf("Failed to %s payment %d: %v", d.Action, d.PaymentID, err)
			errs = append(errs, err)
		}
		outcomes = append(outcomes, outcome)
	}

	// サーバー側の状態を正とするため、結果の状態は再取得した一覧から埋める
	res := s.payments.Mine(ctx)
	if res.OK() {
		statuses := make(map[int]model.PaymentStatus, len(res.Value))
		for _, p := range res.Value {
			statuses[p.ID] = p.Status
		}
		for i := range outcomes {
			if status, ok := statuses[outcomes[i].PaymentID]; ok {
				outcomes[i].Status = status
			}
			log.Printf("Payment %d: action=%s applied=%t status=%s",
				outcomes[i].PaymentID, outcomes[i].Action, outcomes[i].Applied, outcomes[i].Status)
		}
	} else {
		log.Printf("Failed to refresh payments after review: %s", res.Message())
	}

	if len(errs) > 0 {
		return utils.GetStackWithError(fmt.Errorf("failed to apply %d of %d decisions: %w", len(errs), len(s.args), errors.Join(errs...)))
	}

	if err := s.sendTaskSuccess(ctx, map[string]any{"results": outcomes}); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)
	if seg != nil {
		if err := seg.AddMetadata("duration", duration.String()); err != nil {
			log.Printf("Failed to add duration metadata: %v", err)
		}
	}

	log.Printf("Review decision batch process completed successfully. Applied %d decisions. Duration: %v", len(outcomes), duration)
	return nil
}

func (s *ReviewDecisionBatchService) apply(ctx context.Context, d model.ReviewDecision) (ReviewOutcome, error) {
	outcome := ReviewOutcome{PaymentID: d.PaymentID, Action: d.Action}

	var res api.Result[model.PaymentResponse]
	switch d.Action {
	case model.ReviewActionConfirm:
		res = s.payments.Confirm(ctx, d.PaymentID)
	case model.ReviewActionReject:
		res = s.payments.Reject(ctx, d.PaymentID)
	default:
		return outcome, fmt.Errorf("unknown action %q", d.Action)
	}

	if !res.OK() {
		outcome.Message = res.Message()
		return outcome, fmt.Errorf("payment %d: %w", d.PaymentID, res.Err())
	}
	outcome.Applied = true
	if res.HasValue() {
		outcome.Message = res.Value.Message
		if res.Value.Payment != nil {
			outcome.Status = res.Value.Payment.Status
		}
	}
	return outcome, nil
}
