package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications godoc
//	@Summary		List order confirmation e-mails
//	@Description	Staff and admins only. Filter by status=failed to find customers whose confirmation never arrived.
//	@Tags			Notifications
//	@Produce		json
//	@Param			status		query		string													false	"pending, sent or failed"
//	@Param			page		query		int														false	"Page number (default: 1)"
//	@Param			pageSize	query		int														false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Notification}	"Notifications"
//	@Failure		400			{object}	response.ErrorResponse									"Unknown status"
//	@Failure		401			{object}	response.ErrorResponse									"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse									"Staff access required"
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var status *models.NotificationStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			s := models.NotificationStatus(raw)
			status = &s
		}

		page, pageSize := utils.ParsePage(r)

		notifications, err := h.notificationService.ListNotifications(r.Context(), status, page, pageSize)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Notifications listed successfully", slog.Int("total", notifications.Total))
		response.Success(w, http.StatusOK, notifications)
	}
}
