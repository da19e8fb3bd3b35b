package controllers

import (
	"net/http"

	"github.com/stocktrail/stocktrail-backend/api/responses"
	dashboardsvc "github.com/stocktrail/stocktrail-backend/internal/dashboard"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
)

// DashboardStats returns catalog counts, stock totals, low stock alerts,
// category breakdown, and the trailing six month movement summary.
func DashboardStats(svc *dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
