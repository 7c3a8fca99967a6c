package repositories

import (
	"context"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// AssetReader defines read operations for assets and their issuance history
type AssetReader interface {
	// FindAssetByID retrieves an asset by its unique identifier.
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// FindIssuanceByID retrieves a single custody record.
	FindIssuanceByID(ctx context.Context, issuanceID string) (*domain.AssetIssuance, error)

	// CountOpenIssuances counts issuances still in the issued state for an asset.
	CountOpenIssuances(ctx context.Context, assetID string) (int, error)

	// ListIssuancesByAsset returns the custody history of an asset, newest first.
	ListIssuancesByAsset(ctx context.Context, assetID string) ([]domain.AssetIssuance, error)
}

// AssetWriter defines write operations for assets and issuances
type AssetWriter interface {
	// LockAssetByID selects an asset and locks it for the rest of the transaction.
	LockAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// LockIssuanceByID selects an issuance and locks it for the rest of the transaction.
	LockIssuanceByID(ctx context.Context, issuanceID string) (*domain.AssetIssuance, error)

	// SaveIssuance inserts a new issuance.
	SaveIssuance(ctx context.Context, issuance domain.AssetIssuance) error

	// UpdateIssuance persists status, return details and notes of an issuance.
	UpdateIssuance(ctx context.Context, issuance domain.AssetIssuance) error

	// UpdateAssetStatus sets the custody status of an asset.
	UpdateAssetStatus(ctx context.Context, assetID string, status domain.AssetStatus, at time.Time) error
}

// AssetRepositoryFacade combines all asset-related repository interfaces
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
}
