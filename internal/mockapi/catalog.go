package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uma-arai/capachica-client/internal/model"
)

func buildCategory(_ *gin.Context, id int, req model.CategoryRequest) (model.Category, error) {
	if err := req.Validate(); err != nil {
		return model.Category{}, err
	}
	return model.Category{ID: id, Name: req.Name, Icon: req.Icon}, nil
}

func (s *Server) buildPlace(_ *gin.Context, id int, req model.PlaceRequest) (model.Place, error) {
	if err := req.Validate(); err != nil {
		return model.Place{}, err
	}
	place := model.Place{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Activity:    req.Activity,
		CategoryID:  req.CategoryID,
	}
	if category, ok := s.categories.get(req.CategoryID); ok {
		name := category.Name
		place.CategoryName = &name
	}
	return place, nil
}

func (s *Server) buildTour(_ *gin.Context, id int, req model.TourRequest) (model.Tour, error) {
	if err := req.Validate(); err != nil {
		return model.Tour{}, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	tour := model.Tour{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		UpdatedAt:   &now,
	}
	if existing, ok := s.tours.get(id); ok && existing.CreatedAt != nil {
		tour.CreatedAt = existing.CreatedAt
	} else {
		tour.CreatedAt = &now
	}
	return tour, nil
}

func buildAssociation(_ *gin.Context, id int, req model.AssociationRequest) (model.Association, error) {
	if err := req.Validate(); err != nil {
		return model.Association{}, err
	}
	return model.Association{ID: id, Name: req.Name, Region: req.Region, Description: req.Description}, nil
}

func (s *Server) buildEntrepreneur(_ *gin.Context, id int, req model.EntrepreneurRequest) (model.Entrepreneur, error) {
	if err := req.Validate(); err != nil {
		return model.Entrepreneur{}, err
	}
	return model.Entrepreneur{
		ID:            id,
		Username:      req.Username,
		Email:         req.Email,
		BusinessName:  req.BusinessName,
		Phone:         req.Phone,
		District:      req.District,
		Description:   req.Description,
		AssociationID: req.AssociationID,
		PlaceID:       req.PlaceID,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Categories:    s.lookupCategories(req.Categories),
		Status:        req.Status,
	}, nil
}

func wrapEntrepreneurs(list []model.Entrepreneur) any {
	return model.EntrepreneurList{Data: list}
}

// buildProduct は事業者IDが指定されていなければログイン中の事業者を使います
func (s *Server) buildProduct(c *gin.Context, id int, req model.ProductRequest) (model.Product, error) {
	if err := req.Validate(); err != nil {
		return model.Product{}, err
	}
	entrepreneurID := req.EntrepreneurID
	if entrepreneurID == 0 {
		account := currentAccount(c)
		if account.EntrepreneurID == nil {
			return model.Product{}, errNoEntrepreneur
		}
		entrepreneurID = *account.EntrepreneurID
	}
	return model.Product{
		ID:             id,
		EntrepreneurID: entrepreneurID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		Duration:       req.Duration,
		CategoryIDs:    append([]int(nil), req.CategoryIDs...),
		Categories:     s.lookupCategories(req.CategoryIDs),
	}, nil
}

// 呼び出し側でロックを取得していること
func (s *Server) lookupCategories(ids []int) []model.Category {
	categories := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		if category, ok := s.categories.get(id); ok {
			categories = append(categories, category)
		}
	}
	return categories
}

func (s *Server) myProducts(c *gin.Context) {
	account := currentAccount(c)
	if account.EntrepreneurID == nil {
		c.JSON(http.StatusForbidden, gin.H{"message": errNoEntrepreneur.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mine := []model.Product{}
	for _, p := range s.products.list() {
		if p.EntrepreneurID == *account.EntrepreneurID {
			mine = append(mine, p)
		}
	}
	c.JSON(http.StatusOK, mine)
}

// SeedCategory はカテゴリを登録してIDを振ります
func (s *Server) SeedCategory(category model.Category) model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.allocID()
	s.categories.put(category.ID, category)
	return category
}

// SeedEntrepreneur は事業者をそのまま登録します。省略された項目も補完しません
func (s *Server) SeedEntrepreneur(e model.Entrepreneur) model.Entrepreneur {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.allocID()
	s.entrepreneurs.put(e.ID, e)
	return e
}

// SeedProduct は商品を登録してIDを振ります
func (s *Server) SeedProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.allocID()
	p.Categories = s.lookupCategories(p.CategoryIDs)
	s.products.put(p.ID, p)
	return p
}
