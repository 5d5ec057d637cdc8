package model

import (
	"errors"
	"testing"
)

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name      string
		req       interface{ Validate() error }
		wantField string
	}{
		{
			name: "ログイン正常",
			req:  LoginRequest{Email: "a@b.com", Password: "x"},
		},
		{
			name:      "ログインのパスワード空",
			req:       LoginRequest{Email: "a@b.com", Password: "   "},
			wantField: "password",
		},
		{
			name: "登録正常",
			req:  RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "secret", PasswordConfirmation: "secret", Role: RoleClient},
		},
		{
			name:      "登録の確認不一致",
			req:       RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "secret", PasswordConfirmation: "other", Role: RoleClient},
			wantField: "password_confirmation",
		},
		{
			name:      "商品のカテゴリなし",
			req:       ProductRequest{Name: "Kayak", Description: "d", Duration: "2h", Price: 10},
			wantField: "category_ids",
		},
		{
			name:      "商品の価格が負",
			req:       ProductRequest{Name: "Kayak", Description: "d", Duration: "2h", Price: -1, CategoryIDs: []int{1}},
			wantField: "price",
		},
		{
			name:      "観光地の緯度範囲外",
			req:       PlaceRequest{Name: "Isla", Description: "d", Latitude: 91, CategoryID: 1},
			wantField: "latitude",
		},
		{
			name: "観光地正常",
			req:  PlaceRequest{Name: "Isla", Description: "d", Latitude: -15.6, Longitude: -69.8, CategoryID: 1},
		},
		{
			name:      "協会の地域なし",
			req:       AssociationRequest{Name: "Asoc"},
			wantField: "region",
		},
		{
			name:      "事業者の電話なし",
			req:       EntrepreneurRequest{Username: "u", Email: "e", BusinessName: "b", District: "d", Status: "activo"},
			wantField: "phone",
		},
		{
			name:      "トップのタイトルなし",
			req:       HomeRequest{},
			wantField: "title",
		},
		{
			name:      "ツアーの価格が負",
			req:       TourRequest{Name: "t", Description: "d", Price: -5},
			wantField: "price",
		},
		{
			name:      "カテゴリ名なし",
			req:       CategoryRequest{},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %v, want %v", verr.Field, tt.wantField)
			}
		})
	}
}

func TestLoginResponse_FirstRole(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		fallback Role
		want     Role
	}{
		{name: "先頭を使う", roles: []string{RoleEntrepreneur, RoleClient}, fallback: RoleClient, want: RoleEntrepreneur},
		{name: "空ならfallback", roles: []string{}, fallback: RoleClient, want: RoleClient},
		{name: "nilならfallback", roles: nil, fallback: RoleUnknown, want: RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoginResponse{Roles: tt.roles}.FirstRole(tt.fallback)
			if got != tt.want {
				t.Errorf("FirstRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_RegisteredSince(t *testing.T) {
	if got := (User{CreatedAt: "2024-03-05T10:20:30.000000Z"}).RegisteredSince(); got != "2024-03-05" {
		t.Errorf("RegisteredSince() = %v, want 2024-03-05", got)
	}
	if got := (User{CreatedAt: "2024"}).RegisteredSince(); got != "2024" {
		t.Errorf("RegisteredSince() = %v, want 2024", got)
	}
}

func TestEntrepreneur_ApplyDefaults(t *testing.T) {
	e := Entrepreneur{ID: 1, BusinessName: "Kayak SAC"}
	e.ApplyDefaults()
	if e.Phone != "-" || e.District != "-" {
		t.Errorf("ApplyDefaults() phone/district = %q/%q, want -/-", e.Phone, e.District)
	}
	if e.Status != "inactivo" {
		t.Errorf("ApplyDefaults() status = %q, want inactivo", e.Status)
	}

	kept := Entrepreneur{Phone: "999", District: "Capachica", Status: "activo"}
	kept.ApplyDefaults()
	if kept.Phone != "999" || kept.District != "Capachica" || kept.Status != "activo" {
		t.Errorf("ApplyDefaults() overwrote values: %+v", kept)
	}
}
