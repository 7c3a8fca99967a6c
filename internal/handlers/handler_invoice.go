package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService   portssvc.InvoiceSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

// RegisterInvoiceRoutes registers routes related to invoices.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService, reportingService: reportingService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PATCH("/:id", h.patchInvoice)
		invoices.POST("/:id/send", h.sendInvoice)
		invoices.POST("/:id/void", h.voidInvoice)
		invoices.POST("/:id/refresh", h.refreshStatus)
		invoices.GET("/:id/pdf", h.invoiceDocument)
	}
}

// createInvoice raises a draft invoice with its items.
// @Summary Create an invoice
// @Description Raises a draft invoice with its items and assigns the next number of the issue year
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	logger = logger.With(slog.String("client_id", req.ClientID))
	logger.Info("Received request to create invoice", slog.Int("items", len(req.Items)))

	inv, items, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "creating invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", inv.InvoiceID), slog.String("invoice_no", inv.InvoiceNo))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv, items))
}

// getInvoice returns an invoice with its items, allocated amount and balance.
// @Summary Get an invoice
// @Description Returns an invoice with its items, allocated amount and balance
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	res, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "retrieving invoice")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listInvoices returns a page of invoices, newest first.
// @Summary List invoices
// @Description Returns a page of invoices, newest first
// @Tags invoices
// @Produce  json
// @Param   clientID query string false "Client ID"
// @Param   status query string false "Invoice status" Enums(draft, sent, part_paid, paid, void)
// @Param   issuedFrom query string false "Issued on or after (YYYY-MM-DD)"
// @Param   issuedTo query string false "Issued on or before (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	res, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "listing invoices")
		return
	}

	logger.Info("Invoices listed", slog.Int("count", len(res.Invoices)))
	c.JSON(http.StatusOK, res)
}

// patchInvoice edits the header of a draft invoice.
// @Summary Update a draft invoice
// @Description Edits the header fields of a draft invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.PatchInvoiceRequest true "Fields to change"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *invoiceHandler) patchInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PatchInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	invoiceID := c.Param("id")
	inv, err := h.invoiceService.PatchInvoice(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "updating invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, nil))
}

// sendInvoice stamps delivery and queues the invoice email.
// @Summary Send an invoice
// @Description Marks the invoice sent and queues the invoice email
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   send body dto.SendInvoiceRequest true "Recipient"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	invoiceID := c.Param("id")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	inv, err := h.invoiceService.SendInvoice(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "sending invoice")
		return
	}

	logger.Info("Invoice queued for delivery", slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, nil))
}

// voidInvoice makes an invoice terminal.
// @Summary Void an invoice
// @Description Makes an invoice terminal; refused once payments are allocated to it
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	invoiceID := c.Param("id")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	inv, err := h.invoiceService.VoidInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, logger, err, "voiding invoice")
		return
	}

	logger.Info("Invoice voided")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, nil))
}

// refreshStatus re-derives the status from recorded allocations.
// @Summary Refresh invoice status
// @Description Re-derives the status of a sent invoice from its allocations
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id}/refresh [post]
func (h *invoiceHandler) refreshStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	invoiceID := c.Param("id")
	inv, err := h.invoiceService.RefreshInvoiceStatus(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "refreshing invoice status")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv, nil))
}

// invoiceDocument renders the plain-text invoice document.
// @Summary Render an invoice document
// @Description Returns the invoice as a plain-text document
// @Tags invoices
// @Produce  plain
// @Param   id path string true "Invoice ID"
// @Success 200 {string} string "Invoice document"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) invoiceDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	doc, err := h.reportingService.InvoiceDocument(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "rendering invoice")
		return
	}
	c.String(http.StatusOK, doc)
}
