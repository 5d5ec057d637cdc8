package model

const (
	entrepreneurPlaceholder   = "-"
	defaultEntrepreneurStatus = "inactivo"
)

// Entrepreneur は事業者です
// entrepreneurs のエンドポイントはcamelCaseのキーを使います
type Entrepreneur struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	BusinessName  string     `json:"businessName"`
	Phone         string     `json:"phone"`
	District      string     `json:"district"`
	Description   *string    `json:"description"`
	AssociationID *int       `json:"associationId"`
	PlaceID       *int       `json:"placeId"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	Categories    []Category `json:"categories"`
	User          *User      `json:"user"`
	Status        string     `json:"status"`
}

// ApplyDefaults はバックエンドが省略した項目に既定値を入れます
func (e *Entrepreneur) ApplyDefaults() {
	if e.Phone == "" {
		e.Phone = entrepreneurPlaceholder
	}
	if e.District == "" {
		e.District = entrepreneurPlaceholder
	}
	if e.Status == "" {
		e.Status = defaultEntrepreneurStatus
	}
}

// EntrepreneurList は GET entrepreneurs のレスポンスです
type EntrepreneurList struct {
	Data []Entrepreneur `json:"data"`
}

type EntrepreneurRequest struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Password      *string  `json:"password,omitempty"`
	BusinessName  string   `json:"businessName"`
	Phone         string   `json:"phone"`
	District      string   `json:"district"`
	Description   *string  `json:"description"`
	AssociationID *int     `json:"associationId"`
	PlaceID       *int     `json:"placeId"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Categories    []int    `json:"categories"`
	Status        string   `json:"status"`
}

func (r EntrepreneurRequest) Validate() error {
	return requireAll(
		field{"username", r.Username},
		field{"email", r.Email},
		field{"businessName", r.BusinessName},
		field{"phone", r.Phone},
		field{"district", r.District},
		field{"status", r.Status},
	)
}
