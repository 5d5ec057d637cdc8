package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/service/controller"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

// PaymentAPI はバッチが利用する支払いの操作です
type PaymentAPI interface {
	Mine(ctx context.Context) api.Result[[]model.Payment]
	Confirm(ctx context.Context, id int) api.Result[model.PaymentResponse]
	Reject(ctx context.Context, id int) api.Result[model.PaymentResponse]
}

// TaskClient はStep Functionsへの結果通知です
type TaskClient interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
}

// backend はバッチ共通の接続先です
type backend struct {
	payments PaymentAPI
	tokens   api.TokenSource
	tasks    TaskClient
	cfg      *config.Config
	close    func() error
}

// openBackend は保存済みセッションを開き、そのトークンでAPIクライアントを作成します
func openBackend(ctx context.Context, cfg *config.Config, sfnClient *sfn.Client) (*backend, error) {
	store, closeStore, err := session.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		EnableTracing: cfg.EnableTracing,
	}, store)
	if err != nil {
		if closeErr := closeStore(); closeErr != nil {
			log.Printf("Failed to close session store: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	b := &backend{
		payments: controller.New(client, store).Payments,
		tokens:   store,
		cfg:      cfg,
		close:    closeStore,
	}
	// nilの*sfn.Clientをそのままインターフェースに入れない
	if sfnClient != nil {
		b.tasks = sfnClient
	}
	return b, nil
}

func (b *backend) Close() error {
	if b.close != nil {
		return b.close()
	}
	return nil
}

// requireSession はバッチを実行できるセッションがあるかを確認します
func (b *backend) requireSession(ctx context.Context) error {
	if b.tokens == nil {
		return fmt.Errorf("session is not configured")
	}
	if _, ok := b.tokens.Token(ctx); !ok {
		return fmt.Errorf("no session token stored in namespace %q, login first", b.cfg.Session.Namespace)
	}
	return nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、出力を返却します
func (b *backend) sendTaskSuccess(ctx context.Context, output any) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if config.IsLocal() {
		log.Printf("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}
	if b.tasks == nil {
		return fmt.Errorf("sfnClient is not initialized")
	}

	body, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal task output: %w", err)
	}

	taskToken := b.cfg.SFN.TaskToken
	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	_, err = b.tasks.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Printf("Successfully sent task success with output: %s", string(body))
	return nil
}
