package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout は RunWithTimeout が制限時間を超えたときに返されます
var ErrTimeout = errors.New("process timed out")

// 指定されたタイムアウト時間内で処理を実行する
// タイムアウトを超えた場合は、コンテキストをキャンセルして ErrTimeout を返す
// 呼び出し元のコンテキストがキャンセルされた場合は、そのエラーを返す
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	// タイムアウト付きのコンテキストを作成
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// エラーチャネルを作成
	errChan := make(chan error, 1)

	go func() {
		errChan <- fn(ctx)
	}()

	// 処理の完了またはタイムアウトを待機
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}
		return ctx.Err()
	}
}
