// Package mockapi はバックエンドのREST APIをメモリ上で再現するサーバーです
// クライアントのテストとローカル開発(cmd/mockapi)で使います
package mockapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uma-arai/capachica-client/internal/model"
)

// RecordedRequest はサーバーが受け取ったリクエストの記録です
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

type failure struct {
	status int
	body   string
}

// Server はメモリ上のバックエンドです
type Server struct {
	engine *gin.Engine

	mu            sync.Mutex
	nextID        int
	accounts      map[string]*Account // email -> account
	tokens        map[string]string   // token -> email
	jwtSecret     []byte
	registerRoles []string
	overrideRoles bool
	requests      []RecordedRequest
	failures      map[string][]failure
	now           func() time.Time

	products      *collection[model.Product]
	categories    *collection[model.Category]
	places        *collection[model.Place]
	tours         *collection[model.Tour]
	associations  *collection[model.Association]
	entrepreneurs *collection[model.Entrepreneur]
	reservations  *collection[model.Reservation]
	payments      *collection[model.Payment]
	gallery       *collection[model.GalleryImage]
	home          model.HomeContent
}

// Option はServerの設定を変更します
type Option func(*Server)

// WithJWTSecret を指定するとトークンをHS256のJWTとして発行します
// 指定しない場合はopaqueなトークンを発行します
func WithJWTSecret(secret []byte) Option {
	return func(s *Server) {
		s.jwtSecret = secret
	}
}

// WithRegisterRoles は register のレスポンスに含める roles を固定します
// 空のスライスを渡すとロールなしのレスポンスになります
func WithRegisterRoles(roles []string) Option {
	return func(s *Server) {
		s.registerRoles = roles
		s.overrideRoles = true
	}
}

// WithMiddleware はルートより前に実行するミドルウェアを追加します(CORS、ログなど)
func WithMiddleware(handlers ...gin.HandlerFunc) Option {
	return func(s *Server) {
		s.engine.Use(handlers...)
	}
}

// WithClock は時刻の取得元を差し替えます
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New は空のバックエンドを作成します
func New(opts ...Option) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:        engine,
		accounts:      map[string]*Account{},
		tokens:        map[string]string{},
		failures:      map[string][]failure{},
		now:           time.Now,
		products:      newCollection[model.Product](),
		categories:    newCollection[model.Category](),
		places:        newCollection[model.Place](),
		tours:         newCollection[model.Tour](),
		associations:  newCollection[model.Association](),
		entrepreneurs: newCollection[model.Entrepreneur](),
		reservations:  newCollection[model.Reservation](),
		payments:      newCollection[model.Payment](),
		gallery:       newCollection[model.GalleryImage](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.home = model.HomeContent{ID: 1, Title: "Capachica", UpdatedAt: s.now().UTC().Format(time.RFC3339)}

	engine.Use(s.record(), s.injectFailure())
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Run はaddrで待ち受けます
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	auth := api.Group("/")
	auth.Use(s.requireAuth())

	api.POST("/login", s.login)
	api.POST("/register", s.register)
	auth.GET("/me", s.me)
	auth.POST("/logout", s.logout)

	auth.GET("/products/my", s.myProducts)
	auth.GET("/products", listHandler(s, s.products, nil))
	auth.GET("/products/:id", getHandler(s, s.products))
	auth.POST("/products", createHandler(s, s.products, s.buildProduct))
	auth.PUT("/products/:id", updateHandler(s, s.products, s.buildProduct))
	auth.DELETE("/products/:id", deleteHandler(s, s.products))

	registerCRUD(s, api, auth, "/categories", s.categories, buildCategory, nil)
	registerCRUD(s, api, auth, "/places", s.places, s.buildPlace, nil)
	registerCRUD(s, api, auth, "/tours", s.tours, s.buildTour, nil)
	registerCRUD(s, api, auth, "/associations", s.associations, buildAssociation, nil)
	registerCRUD(s, api, auth, "/entrepreneurs", s.entrepreneurs, s.buildEntrepreneur, wrapEntrepreneurs)

	auth.GET("/reservations", listHandler(s, s.reservations, nil))
	auth.GET("/reservations/my", s.myReservations)
	auth.POST("/reservations", s.createReservation)

	auth.GET("/payments", listHandler(s, s.payments, nil))
	auth.POST("/payments", s.submitPayment)
	auth.POST("/payments/:id/confirm", s.reviewPayment(model.PaymentConfirmed))
	auth.POST("/payments/:id/reject", s.reviewPayment(model.PaymentRejected))
	auth.GET("/entrepreneur/payments", s.entrepreneurPayments)

	api.GET("/gallery", listHandler(s, s.gallery, nil))
	auth.POST("/gallery", s.uploadGallery)

	api.GET("/home", s.getHome)
	auth.PUT("/home", s.updateHome)
}

// FailNext は method と path に一致する次のリクエストを status で失敗させます
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Requests はこれまでに受け取ったリクエストを返します
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Authorization: c.GetHeader("Authorization"),
			ContentType:   c.ContentType(),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) injectFailure() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path

		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			c.Data(f.status, "application/json", []byte(f.body))
			c.Abort()
			return
		}
		c.Next()
	}
}

// 呼び出し側でロックを取得していること
func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
}
