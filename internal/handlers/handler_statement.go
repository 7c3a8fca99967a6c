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

// statementHandler handles client statement requests.
type statementHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// RegisterStatementRoutes registers client statement routes.
func RegisterStatementRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &statementHandler{reportingService: reportingService}

	clients := rg.Group("/clients/:id")
	{
		clients.GET("/statement", h.getStatement)
		clients.POST("/statement/send", h.sendStatement)
	}
}

// getStatement renders a client statement as JSON, CSV or XLSX.
// @Summary Get a client statement
// @Description Summarises invoices and payments of a client over a date range as JSON, CSV or XLSX
// @Tags statements
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Param   format query string false "Output format" Enums(json, csv, xlsx) default(json)
// @Success 200 {object} domain.ClientStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /clients/{id}/statement [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	clientID := c.Param("id")
	logger = logger.With(slog.String("client_id", clientID), slog.String("format", params.Format))

	st, err := h.reportingService.ClientStatement(c.Request.Context(), clientID, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "building statement")
		return
	}

	var body []byte
	var contentType string
	switch params.Format {
	case dto.FormatCSV:
		body, err = reports.StatementCSV(*st)
		contentType = reports.ContentTypeCSV
	case dto.FormatXLSX:
		body, err = reports.StatementXLSX(*st)
		contentType = reports.ContentTypeXLSX
	default:
		c.JSON(http.StatusOK, st)
		return
	}
	if err != nil {
		respondError(c, logger, err, "rendering statement")
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.%s", params.From.Format("20060102"), params.To.Format("20060102"), params.Format)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, body)
}

// sendStatement queues a statement email for the client.
// @Summary Send a client statement
// @Description Queues an email carrying the client statement for the given range
// @Tags statements
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   statement body dto.SendStatementRequest true "Recipient and range"
// @Success 202 {object} domain.EmailMessage
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /clients/{id}/statement/send [post]
func (h *statementHandler) sendStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.SendStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	clientID := c.Param("id")
	logger = logger.With(slog.String("client_id", clientID))

	msg, err := h.reportingService.SendStatement(c.Request.Context(), clientID, req, userID)
	if err != nil {
		respondError(c, logger, err, "sending statement")
		return
	}

	logger.Info("Statement queued", slog.String("email_id", msg.EmailID))
	c.JSON(http.StatusAccepted, msg)
}
