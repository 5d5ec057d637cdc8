package mockapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uma-arai/capachica-client/internal/model"
)

const dateLayout = "2006-01-02"

func (s *Server) createReservation(c *gin.Context) {
	var req model.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	account := currentAccount(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.get(req.ProductID)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "El producto no existe"})
		return
	}

	quantity := req.Quantity
	date := req.ReservationDate
	total := product.Price * float64(req.Quantity)
	user := account.user()
	reservation := model.Reservation{
		ID:              s.allocID(),
		ProductName:     &product.Name,
		Quantity:        &quantity,
		ReservationDate: &date,
		Status:          model.ReservationPending,
		TotalAmount:     &total,
		Product:         &product,
		User:            &user,
	}
	s.reservations.put(reservation.ID, reservation)

	c.JSON(http.StatusCreated, model.ReservationCreateResponse{
		Message:     "Reserva creada",
		Reservation: &reservation,
	})
}

func (s *Server) myReservations(c *gin.Context) {
	account := currentAccount(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	mine := []model.Reservation{}
	for _, r := range s.reservations.list() {
		if r.User != nil && r.User.ID == account.ID {
			mine = append(mine, r)
		}
	}
	c.JSON(http.StatusOK, mine)
}

func (s *Server) submitPayment(c *gin.Context) {
	reservationID, err := strconv.Atoi(c.PostForm("reservation_id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "reservation_id is required"})
		return
	}
	method := c.PostForm("payment_method")
	if method == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "payment_method is required"})
		return
	}

	var receiptURL *string
	if file, err := c.FormFile(model.ReceiptFileField); err == nil {
		url := "/storage/receipts/" + uuid.NewString() + filepath.Ext(file.Filename)
		receiptURL = &url
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.reservations.get(reservationID)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "La reserva no existe"})
		return
	}

	paidAt := s.now().UTC().Format(dateLayout)
	payment := model.Payment{
		ID:          s.allocID(),
		ProductName: reservation.ProductName,
		Status:      model.PaymentPending,
		PaidAt:      &paidAt,
		Amount:      reservation.TotalAmount,
		ReceiptURL:  receiptURL,
	}
	if receiptURL != nil {
		payment.Status = model.PaymentSent
		reservation.ReceiptURL = receiptURL
		s.reservations.put(reservation.ID, reservation)
	}
	if reservation.User != nil {
		name := reservation.User.Name
		payment.ClientName = &name
	}
	r := reservation
	payment.Reservation = &r
	s.payments.put(payment.ID, payment)

	c.JSON(http.StatusCreated, model.PaymentResponse{Message: "Pago registrado", Payment: &payment})
}

// reviewPayment は確認待ちの支払いを status に遷移させます
func (s *Server) reviewPayment(status model.PaymentStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		payment, found := s.payments.get(id)
		if !found {
			notFound(c)
			return
		}
		if !payment.AwaitingReview() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "El pago ya fue revisado"})
			return
		}

		payment.Status = status
		reservationStatus := model.ReservationRejected
		if status == model.PaymentConfirmed {
			confirmedAt := s.now().UTC().Format(time.RFC3339)
			payment.ConfirmedAt = &confirmedAt
			reservationStatus = model.ReservationConfirmed
		}
		if payment.Reservation != nil {
			if reservation, ok := s.reservations.get(payment.Reservation.ID); ok {
				reservation.Status = reservationStatus
				s.reservations.put(reservation.ID, reservation)
				payment.Reservation = &reservation
			}
		}
		s.payments.put(payment.ID, payment)

		c.JSON(http.StatusOK, model.PaymentResponse{Message: "Pago actualizado", Payment: &payment})
	}
}

func (s *Server) entrepreneurPayments(c *gin.Context) {
	account := currentAccount(c)
	if account.EntrepreneurID == nil {
		c.JSON(http.StatusForbidden, gin.H{"message": errNoEntrepreneur.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mine := []model.Payment{}
	for _, p := range s.payments.list() {
		if p.Reservation != nil && p.Reservation.Product != nil && p.Reservation.Product.EntrepreneurID == *account.EntrepreneurID {
			mine = append(mine, p)
		}
	}
	c.JSON(http.StatusOK, mine)
}

// SeedReservation は予約を登録してIDを振ります
func (s *Server) SeedReservation(r model.Reservation) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.allocID()
	s.reservations.put(r.ID, r)
	return r
}

// SeedPayment は支払いを登録してIDを振ります
func (s *Server) SeedPayment(p model.Payment) model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.allocID()
	s.payments.put(p.ID, p)
	return p
}

// Payment は登録済みの支払いを返します
func (s *Server) Payment(id int) (model.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.payments.get(id)
}

func (s *Server) uploadGallery(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err)
		return
	}
	files := form.File[model.GalleryFileField]
	if len(files) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "images is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]model.GalleryImage, 0, len(files))
	for _, f := range files {
		image := model.GalleryImage{
			ID:        s.allocID(),
			URL:       "/storage/gallery/" + uuid.NewString() + filepath.Ext(f.Filename),
			CreatedAt: s.now().UTC().Format(time.RFC3339),
		}
		s.gallery.put(image.ID, image)
		created = append(created, image)
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getHome(c *gin.Context) {
	s.mu.Lock()
	home := s.home
	s.mu.Unlock()

	c.JSON(http.StatusOK, home)
}

func (s *Server) updateHome(c *gin.Context) {
	var req model.HomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.home = model.HomeContent{
		ID:          s.home.ID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Image:       req.Image,
		UpdatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	c.Status(http.StatusNoContent)
}
