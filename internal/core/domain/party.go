package domain

import "github.com/shopspring/decimal"

// ClientStatus is the lifecycle flag of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// BillingCycle is how often a client is invoiced.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingAdHoc     BillingCycle = "ad_hoc"
)

// Client is a customer of the guarding service.
type Client struct {
	ClientID       string          `json:"clientID"`
	Name           string          `json:"name"` // unique
	BillingEmail   *string         `json:"billingEmail,omitempty"`
	BillingCycle   BillingCycle    `json:"billingCycle"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // feeds statements
	Status         ClientStatus    `json:"status"`
}

// Site is a guarded location owned by exactly one client.
type Site struct {
	SiteID   string `json:"siteID"`
	ClientID string `json:"clientID"`
	Name     string `json:"name"` // unique per client
	Status   string `json:"status"`
}

// GuardStatus is the employment state of a guard.
type GuardStatus string

const (
	GuardActive     GuardStatus = "active"
	GuardInactive   GuardStatus = "inactive"
	GuardSuspended  GuardStatus = "suspended"
	GuardTerminated GuardStatus = "terminated"
	GuardOnLeave    GuardStatus = "on_leave"
)

// IsValid reports whether s is a known guard status.
func (s GuardStatus) IsValid() bool {
	switch s {
	case GuardActive, GuardInactive, GuardSuspended, GuardTerminated, GuardOnLeave:
		return true
	}
	return false
}

// PayrollEligible reports whether a guard in this status receives a payroll line.
func (s GuardStatus) PayrollEligible() bool {
	return s == GuardActive
}

// Guard is an employee deployed to sites.
type Guard struct {
	GuardID                   string          `json:"guardID"`
	GuardNo                   string          `json:"guardNo"` // unique
	FullName                  string          `json:"fullName"`
	Status                    GuardStatus     `json:"status"`
	BaseSalaryMonthly         decimal.Decimal `json:"baseSalaryMonthly"`
	HousingAllowanceMonthly   decimal.Decimal `json:"housingAllowanceMonthly"`
	TransportAllowanceMonthly decimal.Decimal `json:"transportAllowanceMonthly"`
	OtherAllowanceMonthly     decimal.Decimal `json:"otherAllowanceMonthly"`
}

// MonthlyAllowances sums the guard's three standing allowances.
func (g Guard) MonthlyAllowances() decimal.Decimal {
	return g.HousingAllowanceMonthly.Add(g.TransportAllowanceMonthly).Add(g.OtherAllowanceMonthly)
}
