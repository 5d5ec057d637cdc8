// Package controller は画面の操作を1回のAPI呼び出しに対応付けます
// 入力の検証は呼び出し側(画面)で行い、ここでは行いません
package controller

import (
	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

// Controllers はリソースごとのコントローラーをまとめたものです
type Controllers struct {
	Auth          *AuthController
	Products      *ProductController
	Categories    *ResourceController[model.Category, model.CategoryRequest]
	Places        *ResourceController[model.Place, model.PlaceRequest]
	Tours         *ResourceController[model.Tour, model.TourRequest]
	Associations  *ResourceController[model.Association, model.AssociationRequest]
	Entrepreneurs *EntrepreneurController
	Reservations  *ReservationController
	Payments      *PaymentController
	Home          *HomeController
	Gallery       *GalleryController
}

// New は client と store を共有するコントローラー群を作成します
func New(client *api.Client, store *session.Store) *Controllers {
	return &Controllers{
		Auth:          &AuthController{client: client, store: store},
		Products:      &ProductController{ResourceController: newResource[model.Product, model.ProductRequest](client, api.Products.Resource)},
		Categories:    newResource[model.Category, model.CategoryRequest](client, api.Categories),
		Places:        newResource[model.Place, model.PlaceRequest](client, api.Places),
		Tours:         newResource[model.Tour, model.TourRequest](client, api.Tours),
		Associations:  newResource[model.Association, model.AssociationRequest](client, api.Associations),
		Entrepreneurs: &EntrepreneurController{client: client},
		Reservations:  &ReservationController{client: client},
		Payments:      &PaymentController{client: client},
		Home:          &HomeController{client: client},
		Gallery:       &GalleryController{client: client},
	}
}
