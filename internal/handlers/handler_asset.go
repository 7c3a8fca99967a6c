package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/middleware"
)

// assetHandler handles HTTP requests related to asset custody.
type assetHandler struct {
	assetService portssvc.AssetSvcFacade
}

// RegisterAssetRoutes registers routes related to assets and their issuances.
func RegisterAssetRoutes(rg *gin.RouterGroup, assetService portssvc.AssetSvcFacade) {
	h := &assetHandler{assetService: assetService}

	assets := rg.Group("/assets/:id")
	{
		assets.GET("/issuances", h.listIssuances)
		assets.POST("/issue", h.issueAsset)
	}

	issuances := rg.Group("/issuances/:id")
	{
		issuances.POST("/return", h.returnAsset)
		issuances.POST("/lost", h.markLost)
	}
}

// issueAsset hands an available asset to a guard.
// @Summary Issue an asset
// @Description Hands an available asset to a guard and opens an issuance
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   id path string true "Asset ID"
// @Param   issuance body dto.IssueAssetRequest true "Issuance details"
// @Success 201 {object} dto.IssuanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /assets/{id}/issue [post]
func (h *assetHandler) issueAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.IssueAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	assetID := c.Param("id")
	logger = logger.With(slog.String("asset_id", assetID), slog.String("guard_id", req.GuardID))
	logger.Info("Received request to issue asset")

	issuance, err := h.assetService.IssueAsset(c.Request.Context(), assetID, req, userID)
	if err != nil {
		respondError(c, logger, err, "issuing asset")
		return
	}

	logger.Info("Asset issued", slog.String("issuance_id", issuance.IssuanceID))
	c.JSON(http.StatusCreated, dto.ToIssuanceResponse(issuance))
}

// returnAsset closes an open issuance.
// @Summary Return an asset
// @Description Closes an open issuance; the asset goes back to stock unless damaged
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   id path string true "Issuance ID"
// @Param   return body dto.ReturnAssetRequest true "Return details"
// @Success 200 {object} dto.IssuanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /issuances/{id}/return [post]
func (h *assetHandler) returnAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.ReturnAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	issuanceID := c.Param("id")
	logger = logger.With(slog.String("issuance_id", issuanceID))

	issuance, err := h.assetService.ReturnAsset(c.Request.Context(), issuanceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "returning asset")
		return
	}

	logger.Info("Asset returned", slog.String("condition", string(req.ReturnCondition)))
	c.JSON(http.StatusOK, dto.ToIssuanceResponse(issuance))
}

// markLost closes an issuance as lost.
// @Summary Mark an issuance lost
// @Description Closes an open issuance as lost and retires the asset
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   id path string true "Issuance ID"
// @Param   lost body dto.MarkLostRequest false "Optional notes"
// @Success 200 {object} dto.IssuanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Operation not allowed in the current state"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /issuances/{id}/lost [post]
func (h *assetHandler) markLost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.MarkLostRequest
	// The body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, err, "request format")
			return
		}
	}

	issuanceID := c.Param("id")
	logger = logger.With(slog.String("issuance_id", issuanceID))

	issuance, err := h.assetService.MarkAssetLost(c.Request.Context(), issuanceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "marking asset lost")
		return
	}

	logger.Info("Asset marked lost", slog.String("asset_id", issuance.AssetID))
	c.JSON(http.StatusOK, dto.ToIssuanceResponse(issuance))
}

// listIssuances returns the custody history of an asset.
// @Summary List issuances of an asset
// @Description Returns the custody history of an asset, newest first
// @Tags assets
// @Produce  json
// @Param   id path string true "Asset ID"
// @Success 200 {array} dto.IssuanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Security BearerAuth
// @Router /assets/{id}/issuances [get]
func (h *assetHandler) listIssuances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("id")

	issuances, err := h.assetService.ListIssuances(c.Request.Context(), assetID)
	if err != nil {
		respondError(c, logger.With(slog.String("asset_id", assetID)), err, "listing issuances")
		return
	}
	c.JSON(http.StatusOK, dto.ToIssuanceResponses(issuances))
}
