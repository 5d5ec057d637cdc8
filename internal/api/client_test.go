package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/uma-arai/capachica-client/internal/model"
)

// MockTokenSource はテスト用のトークン取得元です
type MockTokenSource struct {
	token string
	calls int
}

func (m *MockTokenSource) Token(ctx context.Context) (string, bool) {
	m.calls++
	return m.token, m.token != ""
}

type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			header: r.Header.Clone(),
			body:   data,
		})
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestClient(t *testing.T, baseURL string, tokens TokenSource) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, Timeout: 5 * time.Second}, tokens)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_AuthorizationHeader(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{name: "トークンあり", token: "abc", wantHeader: "Bearer abc"},
		{name: "トークンなし", token: "", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, captured := newTestServer(t, http.StatusOK, `[]`)
			c := newTestClient(t, srv.URL+"/api/", &MockTokenSource{token: tt.token})

			res := Call[[]model.Product](context.Background(), c, Products.List())
			if !res.OK() {
				t.Fatalf("Call() kind = %v, err = %v", res.Kind, res.Err())
			}

			if len(*captured) != 1 {
				t.Fatalf("server received %d requests, want 1", len(*captured))
			}
			req := (*captured)[0]
			if got := req.header.Get("Authorization"); got != tt.wantHeader {
				t.Errorf("Authorization = %q, want %q", got, tt.wantHeader)
			}
			if _, present := req.header["Authorization"]; tt.wantHeader == "" && present {
				t.Error("Authorization header should not be sent without a token")
			}
			if got := req.header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept = %q, want application/json", got)
			}
		})
	}
}

func TestClient_TokenReadPerRequest(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{}`)
	tokens := &MockTokenSource{token: "first"}
	c := newTestClient(t, srv.URL+"/api/", tokens)

	Call[model.User](context.Background(), c, Auth.Me())
	tokens.token = "second"
	Call[model.User](context.Background(), c, Auth.Me())
	tokens.token = ""
	Call[model.User](context.Background(), c, Auth.Me())

	want := []string{"Bearer first", "Bearer second", ""}
	for i, w := range want {
		if got := (*captured)[i].header.Get("Authorization"); got != w {
			t.Errorf("request %d Authorization = %q, want %q", i, got, w)
		}
	}
}

func TestClient_NilTokenSource(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(t, srv.URL+"/api/", nil)

	if res := Call[[]model.Tour](context.Background(), c, Tours.List()); !res.OK() {
		t.Fatalf("Call() kind = %v", res.Kind)
	}
	if got := (*captured)[0].header.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestClient_PathResolution(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		endpoint Endpoint
		wantPath string
	}{
		{name: "相対パス", baseURL: "/api/", endpoint: Products.Mine(), wantPath: "/api/products/my"},
		{name: "末尾スラッシュなし", baseURL: "/api", endpoint: Auth.Me(), wantPath: "/api/me"},
		{name: "パスパラメータ", baseURL: "/api/", endpoint: Places.Get(12), wantPath: "/api/places/12"},
		{name: "絶対パス(home)", baseURL: "/api/", endpoint: Home.Get(), wantPath: "/api/home"},
		{name: "絶対パス(payments)", baseURL: "/api/", endpoint: Payments.Submit(model.PaymentReceipt{ReservationID: 1, PaymentMethod: "yape"}), wantPath: "/api/payments"},
		{name: "確認", baseURL: "/api/", endpoint: Payments.Confirm(5), wantPath: "/api/payments/5/confirm"},
		{name: "却下", baseURL: "/api/", endpoint: Payments.Reject(5), wantPath: "/api/payments/5/reject"},
		{name: "事業者の支払い", baseURL: "/api/", endpoint: Payments.Mine(), wantPath: "/api/entrepreneur/payments"},
		{name: "v1配下でもhomeはoriginから", baseURL: "/v1/api/", endpoint: Home.Get(), wantPath: "/api/home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, captured := newTestServer(t, http.StatusOK, ``)
			c := newTestClient(t, srv.URL+tt.baseURL, nil)

			Call[Empty](context.Background(), c, tt.endpoint)

			if len(*captured) != 1 {
				t.Fatalf("server received %d requests, want 1", len(*captured))
			}
			if got := (*captured)[0].path; got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}
			if got := (*captured)[0].method; got != tt.endpoint.Method {
				t.Errorf("method = %q, want %q", got, tt.endpoint.Method)
			}
		})
	}
}

func TestCall_ResultKinds(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{name: "成功", status: http.StatusOK, body: `{"id":1,"name":"Isla","region":"Puno","description":"d"}`, wantKind: KindSuccess},
		{name: "空ボディ", status: http.StatusNoContent, body: ``, wantKind: KindSuccessEmpty},
		{name: "null", status: http.StatusOK, body: `null`, wantKind: KindSuccessEmpty},
		{name: "不正なJSON", status: http.StatusOK, body: `<html>`, wantKind: KindSuccessEmpty},
		{name: "404", status: http.StatusNotFound, body: `{"message":"not found"}`, wantKind: KindHTTPFailure, wantMessage: `Error 404: {"message":"not found"}`},
		{name: "500本文なし", status: http.StatusInternalServerError, body: ``, wantKind: KindHTTPFailure, wantMessage: "Error 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			c := newTestClient(t, srv.URL+"/api/", nil)

			res := Call[model.Association](context.Background(), c, Associations.Get(1))
			if res.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", res.Kind, tt.wantKind)
			}
			if res.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", res.StatusCode, tt.status)
			}
			if got := res.Message(); got != tt.wantMessage {
				t.Errorf("Message() = %q, want %q", got, tt.wantMessage)
			}
			if tt.wantKind == KindHTTPFailure {
				var httpErr *HTTPError
				if !errors.As(res.Err(), &httpErr) {
					t.Fatalf("Err() = %v, want *HTTPError", res.Err())
				}
				if httpErr.Body != tt.body {
					t.Errorf("HTTPError.Body = %q, want %q", httpErr.Body, tt.body)
				}
			}
			if tt.wantKind == KindSuccess && res.Value.Name != "Isla" {
				t.Errorf("Value.Name = %q, want Isla", res.Value.Name)
			}
		})
	}
}

func TestCall_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url+"/api/", &MockTokenSource{token: "abc"})
	res := Call[[]model.Category](context.Background(), c, Categories.List())

	if res.Kind != KindNetworkFailure {
		t.Fatalf("Kind = %v, want %v", res.Kind, KindNetworkFailure)
	}
	var netErr *NetworkError
	if !errors.As(res.Err(), &netErr) {
		t.Fatalf("Err() = %v, want *NetworkError", res.Err())
	}
	if !strings.HasPrefix(res.Message(), "Error de red: ") {
		t.Errorf("Message() = %q, want network error prefix", res.Message())
	}
}

func TestCall_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	res := Call[[]model.Place](context.Background(), c, Places.List())
	if res.Kind != KindNetworkFailure {
		t.Errorf("Kind = %v, want %v", res.Kind, KindNetworkFailure)
	}
}

func TestCall_UnresolvedPathParam(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL+"/api/", nil)

	res := Call[Empty](context.Background(), c, Endpoint{Name: "broken", Method: http.MethodGet, Path: "places/{id}"})
	if res.Kind != KindRequestFailure {
		t.Errorf("Kind = %v, want %v", res.Kind, KindRequestFailure)
	}
	if len(*captured) != 0 {
		t.Errorf("server received %d requests, want 0", len(*captured))
	}
}

func TestCall_JSONBody(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusCreated, `{"id":1}`)
	c := newTestClient(t, srv.URL+"/api/", nil)

	req := model.RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "secret", PasswordConfirmation: "secret", Role: "cliente"}
	Call[model.LoginResponse](context.Background(), c, Auth.Register(req))

	got := (*captured)[0]
	if ct := got.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	for _, want := range []string{`"password_confirmation":"secret"`, `"role":"cliente"`} {
		if !strings.Contains(string(got.body), want) {
			t.Errorf("body %s does not contain %s", got.body, want)
		}
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "localhost/api"}, nil); err == nil {
		t.Error("NewClient() should reject a relative base url")
	}
}
