package persistence

import (
	"strings"

	"github.com/assetreg/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortSpec whitelists the columns a list endpoint may order by. Anything else
// falls back to the default column, so client input never reaches SQL.
type sortSpec struct {
	columns       map[string]bool
	defaultColumn string
	defaultDesc   bool
}

var (
	categorySort = sortSpec{
		columns:       columnSet("id", "created_at", "updated_at", "name"),
		defaultColumn: "name",
	}
	assetSort = sortSpec{
		columns:       columnSet("id", "created_at", "updated_at", "name", "status", "category_id", "asset_type"),
		defaultColumn: "created_at",
		defaultDesc:   true,
	}
	purchaseSort = sortSpec{
		columns: columnSet("id", "created_at", "updated_at", "purchase_date", "purchase_price",
			"vendor_name", "invoice_number", "expiry_date"),
		defaultColumn: "purchase_date",
		defaultDesc:   true,
	}
)

func columnSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// order resolves the requested column and direction
func (s sortSpec) order(orderBy, orderDir string) clause.OrderByColumn {
	column := strings.TrimSpace(orderBy)
	if !s.columns[column] {
		column = s.defaultColumn
	}

	desc := s.defaultDesc
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		desc = false
	case "DESC":
		desc = true
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

// page applies offset, limit and ordering from filter. A zero page or page
// size returns every row.
func (s sortSpec) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(s.order(filter.OrderBy, filter.OrderDir))
}
