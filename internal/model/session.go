package model

// DefaultSessionName はセッションに名前が保存されていない場合の表示名です
const DefaultSessionName = "Usuario"

// Session はローカルに保存される認証情報のスナップショットです
type Session struct {
	Token          string `json:"-"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	EntrepreneurID *int   `json:"entrepreneur_id,omitempty"`
}

// Authenticated はトークンが保存されているかを返します
func (s Session) Authenticated() bool {
	return s.Token != ""
}
