// Package orm holds gorm helpers shared by the repositories.
package orm

import (
	"gorm.io/gorm"
)

// Scope is a reusable query fragment for (*gorm.DB).Scopes.
type Scope = func(*gorm.DB) *gorm.DB

// Page is a validated page request.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to ≥ 1 and limit to [1, max], substituting def for a
// non-positive limit.
func NewPage(page, limit, def, max int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Scope applies LIMIT/OFFSET.
func (p Page) Scope() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// Pagination is the metadata returned next to a page of results.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Result computes pages = ceil(total/limit).
func (p Page) Result(total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Paginate counts the rows matched by base() and loads one page of them
// into dest. base must return a fresh filtered query on every call; find
// scopes (ordering, preloads) apply only to the page query.
func Paginate(base func() *gorm.DB, page Page, dest interface{}, find ...Scope) (Pagination, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := base().Scopes(find...).Scopes(page.Scope()).Find(dest).Error; err != nil {
		return Pagination{}, err
	}
	return page.Result(total), nil
}
