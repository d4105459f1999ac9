package resource

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-admin/pkg/pagination"
	"gorm.io/gorm"
)

// Descriptor configures how one admin resource is listed, searched and loaded.
type Descriptor struct {
	// Name is the singular display name used in messages ("Banner").
	Name string
	// Table qualifies column references in generated clauses.
	Table string
	// SearchColumns are matched case-insensitively against the keyword.
	SearchColumns []string
	// SearchClauses are extra OR'ed SQL fragments with a single placeholder
	// that receives the lower-cased LIKE pattern.
	SearchClauses []string
	// Filters maps a query parameter to the column it must equal.
	Filters  map[string]string
	Preloads []Preload
	// Order overrides the default newest-first ordering.
	Order      string
	SoftDelete bool
}

// Preload names an association loaded with every detailed read.
type Preload struct {
	Relation    string
	WithTrashed bool
	Order       string
}

// Query carries index parameters after request parsing.
type Query struct {
	Page    pagination.Params
	Keyword string
	Filters map[string]string
}

func (d Descriptor) column(name string) string {
	if d.Table == "" {
		return name
	}
	return d.Table + "." + name
}

func (d Descriptor) order() string {
	if d.Order != "" {
		return d.Order
	}
	return fmt.Sprintf("%s DESC, %s DESC", d.column("created_at"), d.column("id"))
}

func (d Descriptor) applySearch(tx *gorm.DB, keyword string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return tx
	}
	if len(d.SearchColumns) == 0 && len(d.SearchClauses) == 0 {
		return tx
	}

	like := "%" + strings.ToLower(keyword) + "%"
	clauses := make([]string, 0, len(d.SearchColumns)+len(d.SearchClauses))
	args := make([]any, 0, cap(clauses))
	for _, col := range d.SearchColumns {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", d.column(col)))
		args = append(args, like)
	}
	for _, clause := range d.SearchClauses {
		clauses = append(clauses, clause)
		args = append(args, like)
	}
	return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (d Descriptor) applyFilters(tx *gorm.DB, filters map[string]string) *gorm.DB {
	for param, value := range filters {
		col, ok := d.Filters[param]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s = ?", d.column(col)), strings.TrimSpace(value))
	}
	return tx
}

func (d Descriptor) applyPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range d.Preloads {
		p := p
		if !p.WithTrashed && p.Order == "" {
			tx = tx.Preload(p.Relation)
			continue
		}
		tx = tx.Preload(p.Relation, func(db *gorm.DB) *gorm.DB {
			if p.WithTrashed {
				db = db.Unscoped()
			}
			if p.Order != "" {
				db = db.Order(p.Order)
			}
			return db
		})
	}
	return tx
}
