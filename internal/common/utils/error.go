package utils

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// GetStackWithError は、エラーとスタックトレースを組み合わせて返します
func GetStackWithError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\nStack trace:\n%s", err, debug.Stack())
}

// MaskToken はログ出力用にトークンの先頭数文字以外を伏せます
func MaskToken(token string) string {
	const visible = 4
	if token == "" {
		return ""
	}
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return token[:visible] + strings.Repeat("*", len(token)-visible)
}
