package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to client payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// RegisterPaymentRoutes registers routes related to payments.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)
		payments.PATCH("/:id", h.patchPayment)
	}
}

// createPayment records a payment and its allocations.
// @Summary Record a payment
// @Description Records a client payment and allocates it across invoices in one transaction
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	logger = logger.With(slog.String("client_id", req.ClientID))
	logger.Info("Received request to record payment",
		slog.String("amount", req.Amount.String()),
		slog.Int("allocations", len(req.Allocations)))

	payment, allocs, err := h.paymentService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "recording payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, allocs))
}

// getPayment returns a payment with its allocations.
// @Summary Get a payment
// @Description Returns a payment with its allocations
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	res, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, logger.With(slog.String("payment_id", paymentID)), err, "retrieving payment")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listPayments returns payments, optionally filtered by client.
// @Summary List payments
// @Description Returns payments, optionally filtered by client
// @Tags payments
// @Produce  json
// @Param   clientID query string false "Client ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var clientID *string
	if v := c.Query("clientID"); v != "" {
		clientID = &v
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, logger, err, "listing payments")
		return
	}

	res := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		res[i] = dto.ToPaymentResponse(&payments[i], nil)
	}
	c.JSON(http.StatusOK, res)
}

// patchPayment edits a payment that has no allocations yet.
// @Summary Update a payment
// @Description Edits a payment that has no allocations yet
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   payment body dto.PatchPaymentRequest true "Fields to change"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payments/{id} [patch]
func (h *paymentHandler) patchPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	paymentID := c.Param("id")
	payment, err := h.paymentService.PatchPayment(c.Request.Context(), paymentID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("payment_id", paymentID)), err, "updating payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, nil))
}
