package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunWithTimeout(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(ctx context.Context) error
		wantErr error
	}{
		{
			name:    "時間内に完了",
			fn:      func(ctx context.Context) error { return nil },
			wantErr: nil,
		},
		{
			name:    "処理のエラーを返す",
			fn:      func(ctx context.Context) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name: "タイムアウト",
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return nil
			},
			wantErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithTimeout(context.Background(), 20*time.Millisecond, tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RunWithTimeout() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunWithTimeout_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunWithTimeout(ctx, time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithTimeout() error = %v, want context.Canceled", err)
	}
}

func TestGetStackWithError(t *testing.T) {
	if GetStackWithError(nil) != nil {
		t.Error("GetStackWithError(nil) != nil")
	}

	base := errors.New("failed")
	err := GetStackWithError(base)
	if !errors.Is(err, base) {
		t.Errorf("GetStackWithError() does not wrap %v", base)
	}
	if !strings.Contains(err.Error(), "Stack trace:") {
		t.Errorf("GetStackWithError() = %q, want stack trace", err.Error())
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{token: "", want: ""},
		{token: "abc", want: "***"},
		{token: "abcd", want: "****"},
		{token: "1|abcdef", want: "1|ab****"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.token); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
