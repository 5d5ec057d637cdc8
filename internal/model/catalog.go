package model

// Category はカテゴリです
type Category struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

type CategoryRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

func (r CategoryRequest) Validate() error {
	return requireAll(field{"name", r.Name})
}

// Place は観光地です
// categoryId はバックエンドがcamelCaseで返すためそのまま受けます
type Place struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Activity     *string `json:"activity"`
	CategoryID   int     `json:"categoryId"`
	CategoryName *string `json:"category_name"`
}

type PlaceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Activity    *string `json:"activity"`
	CategoryID  int     `json:"categoryId"`
}

func (r PlaceRequest) Validate() error {
	if err := requireAll(field{"name", r.Name}, field{"description", r.Description}); err != nil {
		return err
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return &ValidationError{Field: "latitude", Reason: "out of range"}
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return &ValidationError{Field: "longitude", Reason: "out of range"}
	}
	if r.CategoryID <= 0 {
		return &ValidationError{Field: "categoryId", Reason: "required"}
	}
	return nil
}

// Tour はツアーです
type Tour struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       *string `json:"image"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

type TourRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       *string `json:"image"`
}

func (r TourRequest) Validate() error {
	if err := requireAll(field{"name", r.Name}, field{"description", r.Description}); err != nil {
		return err
	}
	if r.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// Association は事業者が所属する協会です
type Association struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Region      string `json:"region"`
	Description string `json:"description"`
}

type AssociationRequest struct {
	Name        string `json:"name"`
	Region      string `json:"region"`
	Description string `json:"description"`
}

func (r AssociationRequest) Validate() error {
	return requireAll(field{"name", r.Name}, field{"region", r.Region})
}

// HomeContent はトップページの表示内容です
// /api/home はcamelCaseのキーを使います
type HomeContent struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Image       string `json:"image"`
	UpdatedAt   string `json:"updatedAt"`
}

type HomeRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Image       string `json:"image"`
}

func (r HomeRequest) Validate() error {
	return requireAll(field{"title", r.Title})
}

// GalleryFileField はギャラリー画像のmultipartフィールド名です
const GalleryFileField = "images[]"

// GalleryImage はギャラリーの画像です
type GalleryImage struct {
	ID        int    `json:"id"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at,omitempty"`
}
