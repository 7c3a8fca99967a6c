package domain

import (
	"fmt"
	"time"
)

// AssetType classifies issued equipment.
type AssetType string

const (
	AssetGun       AssetType = "gun"
	AssetUniform   AssetType = "uniform"
	AssetRadio     AssetType = "radio"
	AssetTorch     AssetType = "torch"
	AssetBaton     AssetType = "baton"
	AssetHandcuffs AssetType = "handcuffs"
	AssetOther     AssetType = "other"
)

// Condition is the physical state of an asset when issued or returned.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionDamaged Condition = "damaged"
	ConditionLost    Condition = "lost"
)

// IsValid reports whether c is a known condition.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

// AssetStatus is the custody state of an asset.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetIssued      AssetStatus = "issued"
	AssetMaintenance AssetStatus = "maintenance"
	AssetRetired     AssetStatus = "retired"
	AssetLost        AssetStatus = "lost"
)

// IsValid reports whether s is a known asset status.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetAvailable, AssetIssued, AssetMaintenance, AssetRetired, AssetLost:
		return true
	}
	return false
}

// Asset is a tracked piece of equipment.
type Asset struct {
	AssetID       string      `json:"assetID"`
	AssetTag      string      `json:"assetTag"` // unique
	Type          AssetType   `json:"type"`
	Name          *string     `json:"name,omitempty"`
	Condition     Condition   `json:"condition"`
	Status        AssetStatus `json:"status"`
	LastUpdatedAt time.Time   `json:"lastUpdatedAt"`
}

// IssuanceStatus is the state of one custody record.
type IssuanceStatus string

const (
	IssuanceIssued   IssuanceStatus = "issued"
	IssuanceReturned IssuanceStatus = "returned"
	IssuanceLost     IssuanceStatus = "lost"
)

// IsOpen reports whether the issuance still holds the asset.
func (s IssuanceStatus) IsOpen() bool {
	return s == IssuanceIssued
}

// AssetIssuance records custody of an asset by a guard.
type AssetIssuance struct {
	IssuanceID       string         `json:"issuanceID"`
	AssetID          string         `json:"assetID"`
	GuardID          string         `json:"guardID"`
	SiteID           *string        `json:"siteID,omitempty"`
	IssuedAt         time.Time      `json:"issuedAt"`
	ExpectedReturnAt *time.Time     `json:"expectedReturnAt,omitempty"`
	ReturnedAt       *time.Time     `json:"returnedAt,omitempty"`
	IssueCondition   Condition      `json:"issueCondition"`
	ReturnCondition  *Condition     `json:"returnCondition,omitempty"`
	Status           IssuanceStatus `json:"status"`
	Notes            *string        `json:"notes,omitempty"`
	AuditFields
}

// CanIssue checks that the asset is free to be handed out.
// openIssuances is the number of issuances still in the issued state for this asset.
func (a Asset) CanIssue(openIssuances int) error {
	if a.Status != AssetAvailable {
		return fmt.Errorf("asset %s is %s, not available", a.AssetTag, a.Status)
	}
	if openIssuances > 0 {
		return fmt.Errorf("asset %s already has an open issuance", a.AssetTag)
	}
	return nil
}

// StatusAfterReturn maps a return condition to the asset's next status.
// Damaged goods go to maintenance, anything else is available again.
func StatusAfterReturn(c Condition) AssetStatus {
	if c == ConditionDamaged {
		return AssetMaintenance
	}
	return AssetAvailable
}

// Return closes an open issuance and reports the status the asset moves to.
func (i *AssetIssuance) Return(c Condition, notes *string, at time.Time, userID string) (AssetStatus, error) {
	if !i.Status.IsOpen() {
		return "", fmt.Errorf("issuance %s is %s, not open", i.IssuanceID, i.Status)
	}
	i.Status = IssuanceReturned
	i.ReturnedAt = &at
	i.ReturnCondition = &c
	if notes != nil {
		i.Notes = notes
	}
	i.Touch(at, userID)
	return StatusAfterReturn(c), nil
}

// MarkLost closes the issuance as lost. It does not look at the current status.
func (i *AssetIssuance) MarkLost(notes *string, at time.Time, userID string) AssetStatus {
	lost := ConditionLost
	i.Status = IssuanceLost
	i.ReturnedAt = &at
	i.ReturnCondition = &lost
	i.Notes = notes
	i.Touch(at, userID)
	return AssetLost
}
