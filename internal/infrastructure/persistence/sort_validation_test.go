package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty defaults to DESC", "", "DESC"},
		{"asc lowercase", "asc", "ASC"},
		{"ASC uppercase", "ASC", "ASC"},
		{"desc lowercase", "desc", "DESC"},
		{"garbage defaults to DESC", "sideways", "DESC"},
		{"stacked statement defaults to DESC", "ASC; DROP TABLE units;--", "DESC"},
		{"whitespace around asc", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty returns default", "", "created_at", "created_at"},
		{"whitelisted field passes", "name", "created_at", "name"},
		{"unknown field returns default", "favourite_colour", "created_at", "created_at"},
		{"subquery returns default", "(SELECT count(*) FROM units)", "created_at", "created_at"},
		{"stacked statement returns default", "name; DROP TABLE properties; --", "created_at", "created_at"},
		{"case mismatch returns default", "NAME", "created_at", "created_at"},
		{"field with trailing quote returns default", "name'--", "created_at", "created_at"},
		{"whitespace around field passes", "  name  ", "created_at", "name"},
		{"empty default with unknown field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, PropertySortFields, tt.defaultField))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"PropertySortFields":    PropertySortFields,
		"UnitSortFields":        UnitSortFields,
		"TenantSortFields":      TenantSortFields,
		"ApplicationSortFields": ApplicationSortFields,
		"LandlordSortFields":    LandlordSortFields,
		"PaymentSortFields":     PaymentSortFields,
		"UserSortFields":        UserSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should allow '%s'", name, field)
			}
		})
	}
}
