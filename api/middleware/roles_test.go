package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

func TestRequireManager(t *testing.T) {
	handler := RequireManager(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role enums.UserRole
		want int
	}{
		{enums.UserRoleAdmin, http.StatusNoContent},
		{enums.UserRoleManager, http.StatusNoContent},
		{enums.UserRoleStaff, http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithRole(req.Context(), string(tt.role)))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("role %q: expected %d got %d", tt.role, tt.want, resp.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role enums.UserRole
		want int
	}{
		{enums.UserRoleAdmin, http.StatusNoContent},
		{enums.UserRoleManager, http.StatusForbidden},
		{enums.UserRoleStaff, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = req.WithContext(WithRole(req.Context(), string(tt.role)))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("role %q: expected %d got %d", tt.role, tt.want, resp.Code)
		}
	}
}
