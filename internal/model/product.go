package model

// Product は事業者が登録する商品です
type Product struct {
	ID             int        `json:"id"`
	EntrepreneurID int        `json:"entrepreneur_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Stock          int        `json:"stock"`
	Duration       string     `json:"duration"`
	CategoryIDs    []int      `json:"category_ids"`
	Categories     []Category `json:"categories"`
}

// ProductRequest は商品の作成・更新に使うボディです
type ProductRequest struct {
	EntrepreneurID int      `json:"entrepreneur_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Stock          int      `json:"stock"`
	Duration       string   `json:"duration"`
	CategoryIDs    []int    `json:"category_ids"`
	PlaceID        *int     `json:"place_id,omitempty"`
	MainImage      *string  `json:"main_image,omitempty"`
	Images         []string `json:"images,omitempty"`
}

func (r ProductRequest) Validate() error {
	if err := requireAll(field{"name", r.Name}, field{"description", r.Description}, field{"duration", r.Duration}); err != nil {
		return err
	}
	if r.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if r.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if len(r.CategoryIDs) == 0 {
		return &ValidationError{Field: "category_ids", Reason: "required"}
	}
	return nil
}
