package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReviewAction は支払いに対する事業者の判断です
type ReviewAction string

const (
	// ReviewActionConfirm は支払いを確認済みにします
	ReviewActionConfirm ReviewAction = "confirm"
	// ReviewActionReject は支払いを却下します
	ReviewActionReject ReviewAction = "reject"
)

// PaymentReviewItem は確認待ちの支払いをワークフローへ渡すための定義です
type PaymentReviewItem struct {
	PaymentID     int           `json:"payment_id"`
	ReservationID *int          `json:"reservation_id,omitempty"`
	ClientName    string        `json:"client_name"`
	ProductName   string        `json:"product_name"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	ReceiptURL    string        `json:"receipt_url,omitempty"`
}

// PaymentReviewTask は支払い確認バッチがStep Functionsへ返す出力です
type PaymentReviewTask struct {
	CreatedAt time.Time           `json:"created_at"`
	Payments  []PaymentReviewItem `json:"payments"`
}

// ReviewDecision は確認ステップで下された判断です
type ReviewDecision struct {
	PaymentID int          `json:"payment_id"`
	Action    ReviewAction `json:"action"`
}

// NewPaymentReviewItem は支払いからワークフロー用の項目を作成します
// 支払い自体に名前がない場合は予約に紐づく利用者・商品から補います
func NewPaymentReviewItem(p Payment) PaymentReviewItem {
	item := PaymentReviewItem{
		PaymentID: p.ID,
		Status:    p.Status,
	}
	if p.ClientName != nil {
		item.ClientName = *p.ClientName
	}
	if p.ProductName != nil {
		item.ProductName = *p.ProductName
	}
	if p.Amount != nil {
		item.Amount = *p.Amount
	}
	if p.ReceiptURL != nil {
		item.ReceiptURL = *p.ReceiptURL
	}
	if r := p.Reservation; r != nil {
		id := r.ID
		item.ReservationID = &id
		if item.ClientName == "" && r.User != nil {
			item.ClientName = r.User.Name
		}
		if item.ProductName == "" && r.Product != nil {
			item.ProductName = r.Product.Name
		}
	}
	return item
}

// NewPaymentReviewTask は確認待ちの支払いだけを集めてタスク出力を作成します
func NewPaymentReviewTask(payments []Payment, now time.Time) PaymentReviewTask {
	task := PaymentReviewTask{
		CreatedAt: now,
		Payments:  make([]PaymentReviewItem, 0, len(payments)),
	}
	for _, p := range payments {
		if !p.AwaitingReview() {
			continue
		}
		task.Payments = append(task.Payments, NewPaymentReviewItem(p))
	}
	return task
}

// ParseReviewDecisions はタスク入力のJSONから判断の一覧を取り出します
// 入力形式: {"decisions":[{"payment_id":1,"action":"confirm"}]}
func ParseReviewDecisions(input []byte) ([]ReviewDecision, error) {
	var payload struct {
		Decisions []ReviewDecision `json:"decisions"`
	}
	if err := json.Unmarshal(input, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse review decisions: %w", err)
	}

	seen := make(map[int]bool, len(payload.Decisions))
	for _, d := range payload.Decisions {
		if d.PaymentID <= 0 {
			return nil, fmt.Errorf("invalid payment_id %d", d.PaymentID)
		}
		if d.Action != ReviewActionConfirm && d.Action != ReviewActionReject {
			return nil, fmt.Errorf("invalid action %q for payment %d", d.Action, d.PaymentID)
		}
		// 同じ支払いに対して相反する判断が来ることは想定しない
		if seen[d.PaymentID] {
			return nil, fmt.Errorf("duplicate decision for payment %d", d.PaymentID)
		}
		seen[d.PaymentID] = true
	}
	return payload.Decisions, nil
}
