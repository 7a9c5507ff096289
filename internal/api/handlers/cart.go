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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

// GetCart godoc
//	@Summary		Get an account's cart
//	@Description	Retrieves the current cart lines for an account. Owners and admins only.
//	@Tags			Cart
//	@Produce		json
//	@Param			accountId	path		string					true	"Account ID (UUID)"	Format(uuid)
//	@Success		200			{object}	models.Cart				"Current cart"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid account ID format"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse	"Not the account owner"
//	@Failure		404			{object}	response.ErrorResponse	"Account not found"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/{accountId} [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		accountID, err := utils.ParseID(r, "accountId")
		if err != nil {
			logger.Warn("Invalid account id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if _, ok := authorizeAccount(w, r, accountID); !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), accountID)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("accountId", accountID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// UpsertLine godoc
//	@Summary		Add or update a cart line
//	@Description	Adds a product to the cart or replaces the existing line for that product. Repeating the same request leaves the cart unchanged.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			line	body		models.UpsertCartLineRequest	true	"Account and cart line"
//	@Success		200		{object}	models.Cart						"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse			"Not the account owner"
//	@Failure		404		{object}	response.ErrorResponse			"Account not found"
//	@Failure		409		{object}	response.ErrorResponse			"Concurrent cart update"
//	@Security		BearerAuth
//	@Router			/cart/upsert [post]
func (h *CartHandler) UpsertLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpsertCartLineRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart line input")
			return
		}

		if _, ok := authorizeAccount(w, r, req.AccountID); !ok {
			return
		}

		cart, err := h.cartService.UpsertLine(r.Context(), req.AccountID, req.CartLine)
		if err != nil {
			logger.Error("Failed to upsert cart line", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart line saved",
			slog.String("accountId", req.AccountID.String()),
			slog.String("productId", req.CartLine.ProductID.String()),
		)
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveLine godoc
//	@Summary		Remove a cart line
//	@Description	Removes a product from the cart. Retrying a delete that already succeeded is not an error.
//	@Tags			Cart
//	@Produce		json
//	@Param			accountId	path		string					true	"Account ID (UUID)"	Format(uuid)
//	@Param			productId	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200			{object}	models.MessageResponse	"Line removed"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid ID format"
//	@Failure		403			{object}	response.ErrorResponse	"Not the account owner"
//	@Failure		404			{object}	response.ErrorResponse	"Account or line not found"
//	@Security		BearerAuth
//	@Router			/cart/{accountId}/item/{productId} [delete]
func (h *CartHandler) RemoveLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		accountID, err := utils.ParseID(r, "accountId")
		if err != nil {
			response.Error(w, err)
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if _, ok := authorizeAccount(w, r, accountID); !ok {
			return
		}

		result, err := h.cartService.RemoveLine(r.Context(), accountID, productID)
		if err != nil {
			logger.Warn("Failed to remove cart line", slog.String("productId", productID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		message := "Cart Item Removed"
		if !result.Removed {
			message = "Cart Item Already Removed"
		}

		response.Success(w, http.StatusOK, models.MessageResponse{Message: message})
	}
}

// Clear godoc
//	@Summary		Empty a cart
//	@Description	Removes every line from the cart. Succeeds on an already empty cart.
//	@Tags			Cart
//	@Produce		json
//	@Param			accountId	path		string					true	"Account ID (UUID)"	Format(uuid)
//	@Success		200			{object}	models.MessageResponse	"Cart cleared"
//	@Failure		403			{object}	response.ErrorResponse	"Not the account owner"
//	@Failure		404			{object}	response.ErrorResponse	"Account not found"
//	@Security		BearerAuth
//	@Router			/cart/{accountId}/clear [post]
func (h *CartHandler) Clear() http.HandlerFunc {
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

		if err := h.cartService.Clear(r.Context(), accountID); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared", slog.String("accountId", accountID.String()))
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Cart Cleared"})
	}
}
