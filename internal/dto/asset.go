package dto

import (
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// IssueAssetRequest defines the data needed to hand an asset to a guard.
type IssueAssetRequest struct {
	GuardID          string           `json:"guardID" binding:"required"`
	SiteID           *string          `json:"siteID"`
	ExpectedReturnAt *time.Time       `json:"expectedReturnAt"`
	IssueCondition   domain.Condition `json:"issueCondition" binding:"required,oneof=new good fair damaged"`
	Notes            *string          `json:"notes"`
}

// ReturnAssetRequest defines the data needed to close an issuance as returned.
type ReturnAssetRequest struct {
	ReturnCondition domain.Condition `json:"returnCondition" binding:"required,oneof=new good fair damaged lost"`
	Notes           *string          `json:"notes"`
}

// MarkLostRequest carries the optional notes recorded when an asset is lost.
type MarkLostRequest struct {
	Notes *string `json:"notes"`
}

// IssuanceResponse defines the data returned for an asset issuance.
type IssuanceResponse struct {
	IssuanceID       string                `json:"issuanceID"`
	AssetID          string                `json:"assetID"`
	GuardID          string                `json:"guardID"`
	SiteID           *string               `json:"siteID,omitempty"`
	IssuedAt         time.Time             `json:"issuedAt"`
	ExpectedReturnAt *time.Time            `json:"expectedReturnAt,omitempty"`
	ReturnedAt       *time.Time            `json:"returnedAt,omitempty"`
	IssueCondition   domain.Condition      `json:"issueCondition"`
	ReturnCondition  *domain.Condition     `json:"returnCondition,omitempty"`
	Status           domain.IssuanceStatus `json:"status"`
	Notes            *string               `json:"notes,omitempty"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ToIssuanceResponse converts a domain.AssetIssuance to IssuanceResponse DTO.
func ToIssuanceResponse(i *domain.AssetIssuance) IssuanceResponse {
	return IssuanceResponse{
		IssuanceID:       i.IssuanceID,
		AssetID:          i.AssetID,
		GuardID:          i.GuardID,
		SiteID:           i.SiteID,
		IssuedAt:         i.IssuedAt,
		ExpectedReturnAt: i.ExpectedReturnAt,
		ReturnedAt:       i.ReturnedAt,
		IssueCondition:   i.IssueCondition,
		ReturnCondition:  i.ReturnCondition,
		Status:           i.Status,
		Notes:            i.Notes,
		CreatedBy:        i.CreatedBy,
		LastUpdatedAt:    i.LastUpdatedAt,
		LastUpdatedBy:    i.LastUpdatedBy,
	}
}

// ToIssuanceResponses converts a slice of domain.AssetIssuance.
func ToIssuanceResponses(issuances []domain.AssetIssuance) []IssuanceResponse {
	res := make([]IssuanceResponse, len(issuances))
	for i := range issuances {
		res[i] = ToIssuanceResponse(&issuances[i])
	}
	return res
}
