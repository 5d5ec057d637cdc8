package model

// PaymentStatus は支払いのステータスです
type PaymentStatus = string

const (
	PaymentPending   PaymentStatus = "pendiente"
	PaymentSent      PaymentStatus = "enviado"
	PaymentConfirmed PaymentStatus = "confirmado"
	PaymentRejected  PaymentStatus = "rechazado"

	// PaymentStatusAll は一覧の絞り込みで全件を表します
	PaymentStatusAll = "Todos"
)

// Payment は予約に対する支払い(振込証明)です
type Payment struct {
	ID          int           `json:"id"`
	ClientName  *string       `json:"client_name"`
	ProductName *string       `json:"product_name"`
	Status      PaymentStatus `json:"status"`
	PaidAt      *string       `json:"paid_at"`
	Amount      *float64      `json:"amount"`
	ConfirmedAt *string       `json:"confirmed_at"`
	ReceiptURL  *string       `json:"receipt_url"`
	Reservation *Reservation  `json:"reservation"`
}

// AwaitingReview は事業者の確認待ちかどうかを返します
func (p Payment) AwaitingReview() bool {
	return p.Status == PaymentPending || p.Status == PaymentSent
}

// PaymentResponse は confirm / reject のレスポンスです
type PaymentResponse struct {
	Message string   `json:"message"`
	Payment *Payment `json:"payment"`
}

// ReceiptFileField は振込証明画像のmultipartフィールド名です
const ReceiptFileField = "image_file"

// PaymentReceipt は振込証明アップロードの入力です
// ImagePath が空の場合は画像なしで送信します
type PaymentReceipt struct {
	ReservationID int
	PaymentMethod string
	Note          *string
	OperationCode *string
	ImagePath     string
}

func (r PaymentReceipt) Validate() error {
	if r.ReservationID <= 0 {
		return &ValidationError{Field: "reservation_id", Reason: "required"}
	}
	return requireAll(field{"payment_method", r.PaymentMethod})
}

// FilterPayments はステータスで支払いを絞り込みます
// status が空または Todos の場合はすべて返します
func FilterPayments(payments []Payment, status string) []Payment {
	if status == "" || status == PaymentStatusAll {
		return payments
	}
	filtered := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
