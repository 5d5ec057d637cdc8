package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint は1回のAPI呼び出しを表す宣言的な定義です
type Endpoint struct {
	// Name はログとトレースに使う名前です(例: products.create)
	Name   string
	Method string
	// Path は "{name}" 形式のパスパラメータを含められます
	// "/" で始まる場合は "/api/" を付けずにoriginから解決します
	Path       string
	PathParams map[string]string
	Query      url.Values
	// Body はJSONで送信します。Parts / Files がある場合は無視します
	Body   any
	Parts  []Part
	Files  []File
	Header http.Header
}

// expandPath はパスパラメータを埋め込んだパスを返します
func (e Endpoint) expandPath() (string, error) {
	path := e.Path
	for name, value := range e.PathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	if i := strings.Index(path, "{"); i >= 0 {
		return "", fmt.Errorf("unresolved path parameter in %q", path)
	}
	return path, nil
}
