package api

import (
	"net/http"
	"strconv"

	"github.com/uma-arai/capachica-client/internal/model"
)

// Resource は list/get/create/update/delete を共通の形で持つリソースです
type Resource struct {
	name string
	path string
}

func (r Resource) List() Endpoint {
	return Endpoint{Name: r.name + ".list", Method: http.MethodGet, Path: r.path}
}

func (r Resource) Get(id int) Endpoint {
	return r.withID(r.name+".get", http.MethodGet, id, nil)
}

func (r Resource) Create(body any) Endpoint {
	return Endpoint{Name: r.name + ".create", Method: http.MethodPost, Path: r.path, Body: body}
}

func (r Resource) Update(id int, body any) Endpoint {
	return r.withID(r.name+".update", http.MethodPut, id, body)
}

func (r Resource) Delete(id int) Endpoint {
	return r.withID(r.name+".delete", http.MethodDelete, id, nil)
}

func (r Resource) withID(name, method string, id int, body any) Endpoint {
	return Endpoint{
		Name:       name,
		Method:     method,
		Path:       r.path + "/{id}",
		PathParams: map[string]string{"id": strconv.Itoa(id)},
		Body:       body,
	}
}

var (
	Categories    = Resource{name: "categories", path: "categories"}
	Places        = Resource{name: "places", path: "places"}
	Tours         = Resource{name: "tours", path: "tours"}
	Associations  = Resource{name: "associations", path: "associations"}
	Entrepreneurs = Resource{name: "entrepreneurs", path: "entrepreneurs"}

	Auth         = AuthEndpoints{}
	Products     = ProductEndpoints{Resource{name: "products", path: "products"}}
	Reservations = ReservationEndpoints{}
	Payments     = PaymentEndpoints{}
	Home         = HomeEndpoints{}
	Gallery      = GalleryEndpoints{}
)

type AuthEndpoints struct{}

func (AuthEndpoints) Login(req model.LoginRequest) Endpoint {
	return Endpoint{Name: "auth.login", Method: http.MethodPost, Path: "login", Body: req}
}

func (AuthEndpoints) Register(req model.RegisterRequest) Endpoint {
	return Endpoint{Name: "auth.register", Method: http.MethodPost, Path: "register", Body: req}
}

func (AuthEndpoints) Me() Endpoint {
	return Endpoint{Name: "auth.me", Method: http.MethodGet, Path: "me"}
}

func (AuthEndpoints) Logout() Endpoint {
	return Endpoint{Name: "auth.logout", Method: http.MethodPost, Path: "logout"}
}

type ProductEndpoints struct {
	Resource
}

// Mine はログイン中の事業者の商品一覧です
func (ProductEndpoints) Mine() Endpoint {
	return Endpoint{Name: "products.mine", Method: http.MethodGet, Path: "products/my"}
}

type ReservationEndpoints struct{}

func (ReservationEndpoints) List() Endpoint {
	return Endpoint{Name: "reservations.list", Method: http.MethodGet, Path: "reservations"}
}

func (ReservationEndpoints) Mine() Endpoint {
	return Endpoint{Name: "reservations.mine", Method: http.MethodGet, Path: "reservations/my"}
}

func (ReservationEndpoints) Create(req model.ReservationRequest) Endpoint {
	return Endpoint{Name: "reservations.create", Method: http.MethodPost, Path: "reservations", Body: req}
}

type PaymentEndpoints struct{}

func (PaymentEndpoints) List() Endpoint {
	return Endpoint{Name: "payments.list", Method: http.MethodGet, Path: "payments"}
}

// Mine は事業者宛ての支払い一覧です
func (PaymentEndpoints) Mine() Endpoint {
	return Endpoint{Name: "payments.mine", Method: http.MethodGet, Path: "entrepreneur/payments"}
}

// Submit は振込証明をmultipartで送信します。画像がない場合はテキストのみ送ります
func (PaymentEndpoints) Submit(r model.PaymentReceipt) Endpoint {
	parts := []Part{
		{Name: "reservation_id", Value: strconv.Itoa(r.ReservationID)},
		{Name: "payment_method", Value: r.PaymentMethod},
	}
	if r.Note != nil {
		parts = append(parts, Part{Name: "note", Value: *r.Note})
	}
	if r.OperationCode != nil {
		parts = append(parts, Part{Name: "operation_code", Value: *r.OperationCode})
	}

	var files []File
	if r.ImagePath != "" {
		files = []File{{Field: model.ReceiptFileField, Path: r.ImagePath}}
	}

	return Endpoint{
		Name:   "payments.submit",
		Method: http.MethodPost,
		Path:   "/api/payments",
		Parts:  parts,
		Files:  files,
	}
}

func (PaymentEndpoints) Confirm(id int) Endpoint {
	return Endpoint{
		Name:       "payments.confirm",
		Method:     http.MethodPost,
		Path:       "payments/{id}/confirm",
		PathParams: map[string]string{"id": strconv.Itoa(id)},
	}
}

func (PaymentEndpoints) Reject(id int) Endpoint {
	return Endpoint{
		Name:       "payments.reject",
		Method:     http.MethodPost,
		Path:       "payments/{id}/reject",
		PathParams: map[string]string{"id": strconv.Itoa(id)},
	}
}

// HomeEndpoints は "/api/" 接頭辞の規約から外れ、originからのパスで呼びます
type HomeEndpoints struct{}

func (HomeEndpoints) Get() Endpoint {
	return Endpoint{Name: "home.get", Method: http.MethodGet, Path: "/api/home"}
}

func (HomeEndpoints) Update(req model.HomeRequest) Endpoint {
	return Endpoint{Name: "home.update", Method: http.MethodPut, Path: "/api/home", Body: req}
}

type GalleryEndpoints struct{}

func (GalleryEndpoints) List() Endpoint {
	return Endpoint{Name: "gallery.list", Method: http.MethodGet, Path: "gallery"}
}

func (GalleryEndpoints) Upload(file File) Endpoint {
	file.Field = model.GalleryFileField
	return Endpoint{Name: "gallery.upload", Method: http.MethodPost, Path: "gallery", Files: []File{file}}
}
