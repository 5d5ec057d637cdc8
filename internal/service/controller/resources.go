package controller

import (
	"context"

	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/model"
)

type ProductController struct {
	*ResourceController[model.Product, model.ProductRequest]
}

// Mine はログイン中の事業者の商品一覧を取得します
func (c *ProductController) Mine(ctx context.Context) api.Result[[]model.Product] {
	return api.Call[[]model.Product](ctx, c.client, api.Products.Mine())
}

// Categories は商品フォームの選択肢に使うカテゴリ一覧を取得します
func (c *ProductController) Categories(ctx context.Context) api.Result[[]model.Category] {
	return api.Call[[]model.Category](ctx, c.client, api.Categories.List())
}

// EntrepreneurController は一覧が {data: [...]} で返る点だけ他のリソースと異なります
type EntrepreneurController struct {
	client *api.Client
}

// All は一覧を取り出し、省略された項目に既定値を入れて返します
func (c *EntrepreneurController) All(ctx context.Context) api.Result[[]model.Entrepreneur] {
	res := api.Call[model.EntrepreneurList](ctx, c.client, api.Entrepreneurs.List())
	return api.Map(res, func(list model.EntrepreneurList) []model.Entrepreneur {
		out := make([]model.Entrepreneur, 0, len(list.Data))
		for _, e := range list.Data {
			e.ApplyDefaults()
			out = append(out, e)
		}
		return out
	})
}

func (c *EntrepreneurController) Get(ctx context.Context, id int) api.Result[model.Entrepreneur] {
	return withDefaults(api.Call[model.Entrepreneur](ctx, c.client, api.Entrepreneurs.Get(id)))
}

func (c *EntrepreneurController) Create(ctx context.Context, req model.EntrepreneurRequest) api.Result[model.Entrepreneur] {
	return withDefaults(api.Call[model.Entrepreneur](ctx, c.client, api.Entrepreneurs.Create(req)))
}

func (c *EntrepreneurController) Update(ctx context.Context, id int, req model.EntrepreneurRequest) api.Result[model.Entrepreneur] {
	return withDefaults(api.Call[model.Entrepreneur](ctx, c.client, api.Entrepreneurs.Update(id, req)))
}

func (c *EntrepreneurController) Delete(ctx context.Context, id int) api.Result[api.Empty] {
	return api.Call[api.Empty](ctx, c.client, api.Entrepreneurs.Delete(id))
}

func withDefaults(res api.Result[model.Entrepreneur]) api.Result[model.Entrepreneur] {
	return api.Map(res, func(e model.Entrepreneur) model.Entrepreneur {
		e.ApplyDefaults()
		return e
	})
}

type ReservationController struct {
	client *api.Client
}

func (c *ReservationController) All(ctx context.Context) api.Result[[]model.Reservation] {
	return api.Call[[]model.Reservation](ctx, c.client, api.Reservations.List())
}

// Mine はログイン中の利用者の予約一覧を取得します
func (c *ReservationController) Mine(ctx context.Context) api.Result[[]model.Reservation] {
	return api.Call[[]model.Reservation](ctx, c.client, api.Reservations.Mine())
}

func (c *ReservationController) Create(ctx context.Context, req model.ReservationRequest) api.Result[model.ReservationCreateResponse] {
	return api.Call[model.ReservationCreateResponse](ctx, c.client, api.Reservations.Create(req))
}

type PaymentController struct {
	client *api.Client
}

func (c *PaymentController) All(ctx context.Context) api.Result[[]model.Payment] {
	return api.Call[[]model.Payment](ctx, c.client, api.Payments.List())
}

// Mine は事業者宛ての支払い一覧を取得します
func (c *PaymentController) Mine(ctx context.Context) api.Result[[]model.Payment] {
	return api.Call[[]model.Payment](ctx, c.client, api.Payments.Mine())
}

// SubmitReceipt は振込証明を送信し、成功したかどうかを返します
// 失敗時のステータスとボディはapi側でログに出ます
func (c *PaymentController) SubmitReceipt(ctx context.Context, receipt model.PaymentReceipt) bool {
	return api.Call[api.Empty](ctx, c.client, api.Payments.Submit(receipt)).OK()
}

// Confirm は支払いを確認済みにします。状態はサーバーが決めるため、呼び出し後は一覧を再取得してください
func (c *PaymentController) Confirm(ctx context.Context, id int) api.Result[model.PaymentResponse] {
	return api.Call[model.PaymentResponse](ctx, c.client, api.Payments.Confirm(id))
}

// Reject は支払いを却下します
func (c *PaymentController) Reject(ctx context.Context, id int) api.Result[model.PaymentResponse] {
	return api.Call[model.PaymentResponse](ctx, c.client, api.Payments.Reject(id))
}

type HomeController struct {
	client *api.Client
}

func (c *HomeController) Get(ctx context.Context) api.Result[model.HomeContent] {
	return api.Call[model.HomeContent](ctx, c.client, api.Home.Get())
}

func (c *HomeController) Update(ctx context.Context, req model.HomeRequest) api.Result[api.Empty] {
	return api.Call[api.Empty](ctx, c.client, api.Home.Update(req))
}

type GalleryController struct {
	client *api.Client
}

func (c *GalleryController) Images(ctx context.Context) api.Result[[]model.GalleryImage] {
	return api.Call[[]model.GalleryImage](ctx, c.client, api.Gallery.List())
}

// Upload はローカルの画像ファイルを送信し、成功したかどうかを返します
func (c *GalleryController) Upload(ctx context.Context, path string) bool {
	return api.Call[api.Empty](ctx, c.client, api.Gallery.Upload(api.File{Path: path})).OK()
}
