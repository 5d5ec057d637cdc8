package model

// Role はバックエンドが返すロール名です
type Role = string

const (
	RoleClient       Role = "cliente"
	RoleEntrepreneur Role = "emprendedor"
	RoleSuperAdmin   Role = "super-admin"
	// RoleUnknown はロールが保存されていない場合の既定値です
	RoleUnknown Role = "desconocido"
)

// LoginRequest は POST login のボディです
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest は POST register のボディです
// PasswordConfirmation には常に Password と同じ値を入れます
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

// LoginResponse は login / register 成功時のレスポンスです
type LoginResponse struct {
	Message        string   `json:"message"`
	Token          string   `json:"token"`
	User           User     `json:"user"`
	Roles          []string `json:"roles"`
	EntrepreneurID *int     `json:"entrepreneur_id"`
}

// FirstRole は roles の先頭を返し、空の場合は fallback を返します
func (r LoginResponse) FirstRole(fallback Role) Role {
	if len(r.Roles) == 0 || r.Roles[0] == "" {
		return fallback
	}
	return r.Roles[0]
}

// User は GET me で取得するプロフィールです
type User struct {
	ID        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"created_at"`
}

// RegisteredSince は created_at の日付部分(YYYY-MM-DD)を返します
func (u User) RegisteredSince() string {
	if len(u.CreatedAt) < 10 {
		return u.CreatedAt
	}
	return u.CreatedAt[:10]
}
