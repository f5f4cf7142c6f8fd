package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSpec_Order(t *testing.T) {
	tests := []struct {
		name     string
		spec     sortSpec
		orderBy  string
		orderDir string
		column   string
		desc     bool
	}{
		{"defaults", purchaseSort, "", "", "purchase_date", true},
		{"allowed column", purchaseSort, "vendor_name", "asc", "vendor_name", false},
		{"padded direction", assetSort, " status ", "  desc ", "status", true},
		{"unknown column falls back", assetSort, "password_hash", "ASC", "created_at", false},
		{"injection attempt falls back", categorySort, "name; DROP TABLE asset_categories;--", "", "name", false},
		{"unknown direction keeps default", categorySort, "created_at", "sideways", "created_at", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.order(tt.orderBy, tt.orderDir)
			assert.Equal(t, tt.column, got.Column.Name)
			assert.Equal(t, tt.desc, got.Desc)
		})
	}
}
