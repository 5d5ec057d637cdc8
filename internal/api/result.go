package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Kind はAPI呼び出しの結果の種類です
type Kind int

const (
	// KindSuccess は成功し、ボディを型に変換できた場合です
	KindSuccess Kind = iota
	// KindSuccessEmpty は成功したが、ボディが空または変換できなかった場合です
	KindSuccessEmpty
	// KindHTTPFailure は4xx/5xxが返った場合です
	KindHTTPFailure
	// KindNetworkFailure は接続・タイムアウトなどでレスポンスが得られなかった場合です
	KindNetworkFailure
	// KindRequestFailure は送信前にリクエストを組み立てられなかった場合です(ファイルがない等)
	KindRequestFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindSuccessEmpty:
		return "success_empty"
	case KindHTTPFailure:
		return "http_failure"
	case KindNetworkFailure:
		return "network_failure"
	case KindRequestFailure:
		return "request_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HTTPError はエラーステータスのレスポンスです。Bodyは加工せずそのまま保持します
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// NetworkError はレスポンスを受け取れなかったエラーです
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestError は送信前にリクエストを組み立てられなかったエラーです
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Result はAPI呼び出しの結果です
type Result[T any] struct {
	Kind  Kind
	Value T
	// StatusCode はレスポンスを受け取った場合のHTTPステータスです
	StatusCode int
	err        error
}

// OK は成功(ボディの有無を問わない)かどうかを返します
func (r Result[T]) OK() bool {
	return r.Kind == KindSuccess || r.Kind == KindSuccessEmpty
}

// HasValue はValueにレスポンスの内容が入っているかを返します
func (r Result[T]) HasValue() bool {
	return r.Kind == KindSuccess
}

// Err は失敗時に *HTTPError / *NetworkError / *RequestError のいずれかを返します
func (r Result[T]) Err() error {
	return r.err
}

// Message は画面に表示するメッセージを返します
func (r Result[T]) Message() string {
	var httpErr *HTTPError
	var netErr *NetworkError
	var reqErr *RequestError
	switch {
	case r.OK():
		return ""
	case errors.As(r.err, &httpErr):
		if httpErr.Body == "" {
			return fmt.Sprintf("Error %d", httpErr.StatusCode)
		}
		return fmt.Sprintf("Error %d: %s", httpErr.StatusCode, httpErr.Body)
	case errors.As(r.err, &netErr):
		return fmt.Sprintf("Error de red: %v", netErr.Err)
	case errors.As(r.err, &reqErr):
		return fmt.Sprintf("No se pudo preparar la solicitud: %v", reqErr.Err)
	default:
		return fmt.Sprintf("Error: %v", r.err)
	}
}

// Call はエンドポイントを呼び出し、レスポンスをTに変換します
// 失敗してもpanicやエラーの戻り値にはせず、Resultの種類で表します
func Call[T any](ctx context.Context, c *Client, e Endpoint) Result[T] {
	var result Result[T]

	resp, err := c.do(ctx, e)
	if err != nil {
		log.Printf("Request %s failed: %v", e.Name, err)
		result.Kind = KindNetworkFailure
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			result.Kind = KindRequestFailure
		}
		result.err = err
		return result
	}
	result.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Request %s %s %s failed with status %d: %s", e.Name, e.Method, e.Path, resp.StatusCode, resp.Body)
		result.Kind = KindHTTPFailure
		result.err = &HTTPError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		return result
	}

	// Empty はボディを読まない
	if _, discard := any(result.Value).(Empty); discard || len(bytes.TrimSpace(resp.Body)) == 0 {
		result.Kind = KindSuccessEmpty
		return result
	}
	if err := json.Unmarshal(resp.Body, &result.Value); err != nil {
		log.Printf("Failed to decode %s response: %v", e.Name, err)
		var zero T
		result.Value = zero
		result.Kind = KindSuccessEmpty
		return result
	}
	// "null" も空として扱う
	if bytes.Equal(bytes.TrimSpace(resp.Body), []byte("null")) {
		result.Kind = KindSuccessEmpty
		return result
	}

	result.Kind = KindSuccess
	return result
}

// Empty はボディを使わないエンドポイント用の型です
type Empty struct{}

// Map は成功時の値を f で変換します。失敗と空の結果はそのまま引き継ぎます
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	out := Result[U]{Kind: r.Kind, StatusCode: r.StatusCode, err: r.err}
	if r.Kind == KindSuccess {
		out.Value = f(r.Value)
	}
	return out
}
