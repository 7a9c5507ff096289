package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AccountHandler struct {
	accountService service.AccountService
	validator      *validator.Validate
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService, validator: validator.New()}
}

// UpdateShippingAddress godoc
//	@Summary		Save the default shipping address
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			accountId	path		string								true	"Account ID (UUID)"	Format(uuid)
//	@Param			address		body		models.UpdateShippingAddressRequest	true	"Shipping address"
//	@Success		200			{object}	models.Account						"Updated account"
//	@Failure		400			{object}	response.ErrorResponse				"Validation error"
//	@Failure		403			{object}	response.ErrorResponse				"Not the account owner"
//	@Failure		404			{object}	response.ErrorResponse				"Account not found"
//	@Security		BearerAuth
//	@Router			/accounts/{accountId}/shipping-address [put]
func (h *AccountHandler) UpdateShippingAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		accountID, err := utils.ParseID(r, "accountId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if _, ok := authorizeAccount(w, r, accountID); !ok {
			return
		}

		var req models.UpdateShippingAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid shipping address input")
			return
		}

		account, err := h.accountService.UpdateShippingAddress(r.Context(), accountID, req.ShippingAddress)
		if err != nil {
			logger.Error("Failed to save shipping address", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, account)
	}
}

// UpdatePaymentMethod godoc
//	@Summary		Select the payment method
//	@Description	Stores the method used at checkout when the order request names none. Must be one of the configured methods.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			accountId	path		string								true	"Account ID (UUID)"	Format(uuid)
//	@Param			method		body		models.UpdatePaymentMethodRequest	true	"Payment method"
//	@Success		200			{object}	models.Account						"Updated account"
//	@Failure		400			{object}	response.ErrorResponse				"Validation error or method not accepted"
//	@Failure		403			{object}	response.ErrorResponse				"Not the account owner"
//	@Failure		404			{object}	response.ErrorResponse				"Account not found"
//	@Security		BearerAuth
//	@Router			/accounts/{accountId}/payment-method [put]
func (h *AccountHandler) UpdatePaymentMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		accountID, err := utils.ParseID(r, "accountId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if _, ok := authorizeAccount(w, r, accountID); !ok {
			return
		}

		var req models.UpdatePaymentMethodRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment method input")
			return
		}

		account, err := h.accountService.UpdatePaymentMethod(r.Context(), accountID, req.PaymentMethod)
		if err != nil {
			logger.Warn("Failed to save payment method", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, account)
	}
}
