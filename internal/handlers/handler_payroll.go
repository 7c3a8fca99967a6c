package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/middleware"
	"github.com/securitypro/oms_backend/internal/reports"
)

// payrollHandler handles HTTP requests related to payroll runs.
type payrollHandler struct {
	payrollService   portssvc.PayrollSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

// RegisterPayrollRoutes registers payroll month, item and adjustment routes.
func RegisterPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := &payrollHandler{payrollService: payrollService, reportingService: reportingService}

	months := rg.Group("/payroll-months")
	{
		months.POST("", h.createMonth)
		months.GET("", h.listMonths)
		months.GET("/:id", h.getMonth)
		months.GET("/:id/items", h.listItems)
		months.POST("/:id/generate", h.generateItems)
		months.POST("/:id/recompute", h.recompute)
		months.POST("/:id/lock", h.lockMonth)
		months.GET("/:id/export", h.exportMonth)
	}

	rg.POST("/payroll-items/:id/adjustments", h.addAdjustment)
	rg.DELETE("/payroll-adjustments/:id", h.deleteAdjustment)
}

// createMonth opens a draft payroll month.
// @Summary Open a payroll month
// @Description Creates a draft payroll month; the date is normalised to the first of its month
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   month body dto.CreatePayrollMonthRequest true "Month"
// @Success 201 {object} dto.PayrollMonthResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Already exists"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months [post]
func (h *payrollHandler) createMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreatePayrollMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	month, err := h.payrollService.CreateMonth(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "creating payroll month")
		return
	}

	logger.Info("Payroll month created", slog.String("payroll_month_id", month.PayrollMonthID))
	c.JSON(http.StatusCreated, dto.ToPayrollMonthResponse(month))
}

// listMonths returns every payroll month.
// @Summary List payroll months
// @Description Returns every payroll month, newest first
// @Tags payroll
// @Produce  json
// @Success 200 {array} dto.PayrollMonthResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months [get]
func (h *payrollHandler) listMonths(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	months, err := h.payrollService.ListMonths(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "listing payroll months")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollMonthResponses(months))
}

// getMonth returns one payroll month.
// @Summary Get a payroll month
// @Description Returns one payroll month
// @Tags payroll
// @Produce  json
// @Param   id path string true "Payroll month ID"
// @Success 200 {object} dto.PayrollMonthResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id} [get]
func (h *payrollHandler) getMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	month, err := h.payrollService.GetMonth(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieving payroll month")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollMonthResponse(month))
}

// listItems returns the pay lines of a month.
// @Summary List payroll items
// @Description Returns the pay lines of a payroll month
// @Tags payroll
// @Produce  json
// @Param   id path string true "Payroll month ID"
// @Success 200 {array} dto.PayrollItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id}/items [get]
func (h *payrollHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	items, err := h.payrollService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "listing payroll items")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollItemResponses(items))
}

// generateItems creates pay lines for active guards that have none yet.
// @Summary Generate payroll items
// @Description Creates pay lines for active guards that have none in this month
// @Tags payroll
// @Produce  json
// @Param   id path string true "Payroll month ID"
// @Success 200 {object} dto.GenerateItemsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id}/generate [post]
func (h *payrollHandler) generateItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	monthID := c.Param("id")
	logger = logger.With(slog.String("payroll_month_id", monthID))

	created, err := h.payrollService.GenerateItems(c.Request.Context(), monthID, userID)
	if err != nil {
		respondError(c, logger, err, "generating payroll items")
		return
	}

	logger.Info("Payroll items generated", slog.Int("created", created))
	c.JSON(http.StatusOK, dto.GenerateItemsResponse{Created: created})
}

// recompute re-derives every item of the month from its adjustments.
// @Summary Recompute payroll items
// @Description Re-derives every item of a draft month from its adjustments
// @Tags payroll
// @Produce  json
// @Param   id path string true "Payroll month ID"
// @Success 200 {array} dto.PayrollItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id}/recompute [post]
func (h *payrollHandler) recompute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	monthID := c.Param("id")
	items, err := h.payrollService.Recompute(c.Request.Context(), monthID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("payroll_month_id", monthID)), err, "recomputing payroll")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollItemResponses(items))
}

// lockMonth freezes a draft month.
// @Summary Lock a payroll month
// @Description Freezes a draft month and its items
// @Tags payroll
// @Produce  json
// @Param   id path string true "Payroll month ID"
// @Success 200 {object} dto.PayrollMonthResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id}/lock [post]
func (h *payrollHandler) lockMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	monthID := c.Param("id")
	logger = logger.With(slog.String("payroll_month_id", monthID))

	month, err := h.payrollService.LockMonth(c.Request.Context(), monthID, userID)
	if err != nil {
		respondError(c, logger, err, "locking payroll month")
		return
	}

	logger.Info("Payroll month locked")
	c.JSON(http.StatusOK, dto.ToPayrollMonthResponse(month))
}

// addAdjustment records a manual change on a pay line.
// @Summary Add a payroll adjustment
// @Description Records an allowance, deduction or overtime entry on a pay line of a draft month
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Payroll item ID"
// @Param   adjustment body dto.CreateAdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-items/{id}/adjustments [post]
func (h *payrollHandler) addAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	itemID := c.Param("id")
	logger = logger.With(slog.String("payroll_item_id", itemID))

	adj, err := h.payrollService.AddAdjustment(c.Request.Context(), itemID, req, userID)
	if err != nil {
		respondError(c, logger, err, "adding payroll adjustment")
		return
	}

	logger.Info("Payroll adjustment added", slog.String("adjustment_id", adj.AdjustmentID), slog.String("type", string(adj.Type)))
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(adj))
}

// deleteAdjustment removes a manual change from a draft month.
// @Summary Delete a payroll adjustment
// @Description Removes an adjustment from a draft month
// @Tags payroll
// @Produce  json
// @Param   id path string true "Adjustment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-adjustments/{id} [delete]
func (h *payrollHandler) deleteAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	adjID := c.Param("id")
	if err := h.payrollService.DeleteAdjustment(c.Request.Context(), adjID, userID); err != nil {
		respondError(c, logger.With(slog.String("adjustment_id", adjID)), err, "deleting payroll adjustment")
		return
	}
	c.Status(http.StatusNoContent)
}

// exportMonth renders the month's items as CSV or XLSX.
// @Summary Export a payroll month
// @Description Renders the pay lines of a month as CSV or XLSX
// @Tags payroll
// @Produce  octet-stream
// @Param   id path string true "Payroll month ID"
// @Param   format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Payroll export"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /payroll-months/{id}/export [get]
func (h *payrollHandler) exportMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PayrollExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	month, items, err := h.reportingService.PayrollExport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "exporting payroll")
		return
	}

	filename := "payroll_" + month.Month.Format("2006-01")
	var body []byte
	var contentType string
	switch params.Format {
	case dto.FormatXLSX:
		body, err = reports.PayrollXLSX(*month, items)
		contentType = reports.ContentTypeXLSX
	default:
		body, err = reports.PayrollCSV(items)
		contentType = reports.ContentTypeCSV
	}
	if err != nil {
		respondError(c, logger, err, "rendering payroll export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.%s\"", filename, params.Format))
	c.Data(http.StatusOK, contentType, body)
}
