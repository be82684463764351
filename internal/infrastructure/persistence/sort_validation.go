package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not in the
// whitelist, so caller-supplied sort fields never reach the query raw.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":                      true,
	"created_at":              true,
	"updated_at":              true,
	"name":                    true,
	"address":                 true,
	"city":                    true,
	"country":                 true,
	"property_type":           true,
	"rent_amount":             true,
	"landlord_id":             true,
	"summary_total_units":     true,
	"summary_vacant_count":    true,
	"summary_leased_count":    true,
	"summary_occupancy_rate":  true,
	"summary_monthly_revenue": true,
}

// UnitSortFields contains allowed sort fields for units
var UnitSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"unit_number": true,
	"unit_name":   true,
	"rent_amount": true,
	"bedrooms":    true,
	"bathrooms":   true,
	"occupancy":   true,
	"maintenance": true,
	"status":      true,
	"lease_start": true,
	"lease_end":   true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"full_name":    true,
	"email":        true,
	"phone":        true,
	"status":       true,
	"monthly_rent": true,
	"balance":      true,
	"lease_start":  true,
	"lease_end":    true,
	"property_id":  true,
	"unit_id":      true,
}

// ApplicationSortFields contains allowed sort fields for rental applications
var ApplicationSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"full_name":      true,
	"email":          true,
	"status":         true,
	"monthly_income": true,
	"property_id":    true,
	"unit_id":        true,
}

// LandlordSortFields contains allowed sort fields for landlords
var LandlordSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"email":      true,
	"phone":      true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"amount":      true,
	"status":      true,
	"type":        true,
	"month":       true,
	"tenant_id":   true,
	"property_id": true,
	"landlord_id": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"email":        true,
	"display_name": true,
	"role":         true,
	"active":       true,
}
