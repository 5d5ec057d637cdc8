package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken はトークンがJWT形式でない場合に返されます
// Sanctumのようなopaqueトークンでは有効期限は分かりません
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenExpiry はJWT形式のトークンから有効期限を読み取ります
// 署名は検証しません。表示用途のみに使います
func TokenExpiry(token string) (time.Time, bool, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return time.Time{}, false, ErrOpaqueToken
		}
		return time.Time{}, false, fmt.Errorf("failed to parse token claims: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
