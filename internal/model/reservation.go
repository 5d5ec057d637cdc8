package model

// ReservationStatus は予約のステータスです
// 遷移はサーバー側で決まり、クライアントは参照するだけです
type ReservationStatus = string

const (
	ReservationPending   ReservationStatus = "pendiente"
	ReservationApproved  ReservationStatus = "aprobado"
	ReservationConfirmed ReservationStatus = "confirmado"
	ReservationRejected  ReservationStatus = "rechazado"
	ReservationCompleted ReservationStatus = "completada"
	// 一部の画面ではこちらの綴りで返ってくる
	reservationApprovedFeminine ReservationStatus = "aprobada"
)

type Reservation struct {
	ID              int               `json:"id"`
	ProductName     *string           `json:"product_name"`
	Quantity        *int              `json:"quantity"`
	ReservationDate *string           `json:"reservation_date"`
	Status          ReservationStatus `json:"status"`
	TotalAmount     *float64          `json:"total_amount"`
	ReceiptURL      *string           `json:"receipt_url"`
	Product         *Product          `json:"product"`
	User            *User             `json:"user"`
}

// ReservationRequest は POST reservations のボディです
type ReservationRequest struct {
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	ReservationDate string  `json:"reservation_date"`
	OperationCode   string  `json:"operation_code"`
	Message         *string `json:"message"`
	Receipt         *string `json:"receipt"`
}

func (r ReservationRequest) Validate() error {
	if r.ProductID <= 0 {
		return &ValidationError{Field: "product_id", Reason: "required"}
	}
	if r.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return requireAll(field{"reservation_date", r.ReservationDate}, field{"operation_code", r.OperationCode})
}

// ReservationCreateResponse は予約作成時のレスポンスです
type ReservationCreateResponse struct {
	Message     string       `json:"message"`
	Reservation *Reservation `json:"reservation"`
}

// ReservationSummary は利用者ダッシュボードに表示する件数です
type ReservationSummary struct {
	Total     int
	Pending   int
	Completed int
}

// SummarizeReservations は予約一覧から件数を集計します
// completada と aprobada は完了として数えます
func SummarizeReservations(reservations []Reservation) ReservationSummary {
	summary := ReservationSummary{Total: len(reservations)}
	for _, r := range reservations {
		switch r.Status {
		case ReservationPending:
			summary.Pending++
		case ReservationCompleted, reservationApprovedFeminine:
			summary.Completed++
		}
	}
	return summary
}
