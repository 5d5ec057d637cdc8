package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Config はAPIクライアントの設定です
type Config struct {
	// BaseURL は "/api/" までを含むURLです(例: http://localhost:8000/api/)
	BaseURL string
	// Timeout はリクエスト全体のタイムアウトです。自動リトライはしません
	Timeout time.Duration
	// EnableTracing がtrueの場合、X-Rayのサブセグメントを作成します
	EnableTracing bool
}

// TokenSource は認証トークンの取得元です
// リクエストを組み立てるたびに呼ばれるため、ログアウト直後のリクエストは匿名で送られます
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client はバックエンドのREST APIを呼び出すクライアントです
type Client struct {
	base       *url.URL
	httpClient *http.Client
	tokens     TokenSource
	tracing    bool
}

// NewClient は新しいClientを作成します
// tokens がnilの場合は常に匿名でリクエストします
func NewClient(cfg Config, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.EnableTracing {
		httpClient = xray.Client(httpClient)
	}

	return &Client{
		base:       base,
		httpClient: httpClient,
		tokens:     tokens,
		tracing:    cfg.EnableTracing,
	}, nil
}

// BaseURL は設定されたベースURLを返します
func (c *Client) BaseURL() string {
	return c.base.String()
}

// response はHTTPレスポンスのステータスとボディです
type response struct {
	StatusCode int
	Body       []byte
}

// do はエンドポイントを1回呼び出します
// 組み立ての失敗は *RequestError、送受信の失敗は *NetworkError を返します
// HTTPのエラーステータスはresponseで返します
func (c *Client) do(ctx context.Context, e Endpoint) (*response, error) {
	if c.tracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSubsegment(ctx, "API."+e.Name)
		if seg != nil {
			defer seg.Close(nil)
			if err := seg.AddMetadata("endpoint", e.Method+" "+e.Path); err != nil {
				log.Printf("Failed to add endpoint metadata: %v", err)
			}
		}
	}

	req, err := c.newRequest(ctx, e)
	if err != nil {
		return nil, &RequestError{Op: "build " + e.Name, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: e.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read " + req.URL.Path, Err: err}
	}

	return &response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, e Endpoint) (*http.Request, error) {
	u, err := c.resolve(e)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case len(e.Parts) > 0 || len(e.Files) > 0:
		buf, ct, err := encodeMultipart(e.Parts, e.Files)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case e.Body != nil:
		data, err := json.Marshal(e.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, e.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range e.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// resolve は相対パスを "<origin>/api/" 配下に、"/" で始まるパスをoriginからのパスとして解決します
func (c *Client) resolve(e Endpoint) (*url.URL, error) {
	path, err := e.expandPath()
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint path %q: %w", path, err)
	}
	u := c.base.ResolveReference(ref)
	if len(e.Query) > 0 {
		u.RawQuery = e.Query.Encode()
	}
	return u, nil
}
