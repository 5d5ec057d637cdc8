package model

import (
	"encoding/json"
	"testing"
)

func TestSummarizeReservations(t *testing.T) {
	tests := []struct {
		name         string
		reservations []Reservation
		want         ReservationSummary
	}{
		{
			name:         "予約なし",
			reservations: nil,
			want:         ReservationSummary{},
		},
		{
			name: "ステータス混在",
			reservations: []Reservation{
				{ID: 1, Status: ReservationPending},
				{ID: 2, Status: ReservationPending},
				{ID: 3, Status: ReservationCompleted},
				{ID: 4, Status: "aprobada"},
				{ID: 5, Status: ReservationRejected},
			},
			want: ReservationSummary{Total: 5, Pending: 2, Completed: 2},
		},
		{
			name: "aprobadoは完了に含めない",
			reservations: []Reservation{
				{ID: 1, Status: ReservationApproved},
			},
			want: ReservationSummary{Total: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeReservations(tt.reservations)
			if got != tt.want {
				t.Errorf("SummarizeReservations() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReservation_DecodeWireNames(t *testing.T) {
	body := `{
		"id": 12,
		"product_name": "Kayak en el lago",
		"quantity": 2,
		"reservation_date": "2025-07-01",
		"status": "pendiente",
		"total_amount": 120.5,
		"receipt_url": "https://cdn.example.com/r.jpg",
		"product": {"id": 3, "name": "Kayak en el lago"},
		"user": {"name": "Ana", "email": "a@b.com"}
	}`

	var r Reservation
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if r.ProductName == nil || *r.ProductName != "Kayak en el lago" {
		t.Errorf("Reservation.ProductName = %v, want %v", r.ProductName, "Kayak en el lago")
	}
	if r.ReservationDate == nil || *r.ReservationDate != "2025-07-01" {
		t.Errorf("Reservation.ReservationDate = %v, want %v", r.ReservationDate, "2025-07-01")
	}
	if r.TotalAmount == nil || *r.TotalAmount != 120.5 {
		t.Errorf("Reservation.TotalAmount = %v, want %v", r.TotalAmount, 120.5)
	}
	if r.Product == nil || r.Product.ID != 3 {
		t.Errorf("Reservation.Product = %v, want id 3", r.Product)
	}
	if r.User == nil || r.User.Name != "Ana" {
		t.Errorf("Reservation.User = %v, want Ana", r.User)
	}
}

func TestReservationRequest_Validate(t *testing.T) {
	valid := ReservationRequest{
		ProductID:       1,
		Quantity:        2,
		ReservationDate: "2025-07-01",
		OperationCode:   "OP-1",
	}

	tests := []struct {
		name      string
		mutate    func(r *ReservationRequest)
		wantField string
	}{
		{name: "正常系", mutate: func(r *ReservationRequest) {}},
		{name: "商品未指定", mutate: func(r *ReservationRequest) { r.ProductID = 0 }, wantField: "product_id"},
		{name: "数量ゼロ", mutate: func(r *ReservationRequest) { r.Quantity = 0 }, wantField: "quantity"},
		{name: "日付なし", mutate: func(r *ReservationRequest) { r.ReservationDate = " " }, wantField: "reservation_date"},
		{name: "操作番号なし", mutate: func(r *ReservationRequest) { r.OperationCode = "" }, wantField: "operation_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %v, want %v", verr.Field, tt.wantField)
			}
		})
	}
}
