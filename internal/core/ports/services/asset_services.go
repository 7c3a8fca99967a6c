package services

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/securitypro/oms_backend/internal/dto"
)

// AssetReaderSvc defines read operations for asset custody
type AssetReaderSvc interface {
	// ListIssuances returns the custody history of an asset, newest first.
	ListIssuances(ctx context.Context, assetID string) ([]domain.AssetIssuance, error)
}

// AssetLifecycleSvc defines the custody transitions of an asset
type AssetLifecycleSvc interface {
	// IssueAsset hands an available asset to a guard.
	IssueAsset(ctx context.Context, assetID string, req dto.IssueAssetRequest, userID string) (*domain.AssetIssuance, error)

	// ReturnAsset closes an open issuance and frees or quarantines the asset.
	ReturnAsset(ctx context.Context, issuanceID string, req dto.ReturnAssetRequest, userID string) (*domain.AssetIssuance, error)

	// MarkAssetLost closes an issuance as lost whatever its current status.
	MarkAssetLost(ctx context.Context, issuanceID string, req dto.MarkLostRequest, userID string) (*domain.AssetIssuance, error)
}

// AssetSvcFacade combines all asset-related service interfaces
type AssetSvcFacade interface {
	AssetReaderSvc
	AssetLifecycleSvc
}
