package model

import "database/sql"

// Region represents a geographic grouping of ports, possibly nested inside another region
type Region struct {
	Slug       string         `db:"slug" json:"slug"`
	Name       string         `db:"name" json:"name"`
	ParentSlug sql.NullString `db:"parent_slug" json:"-"`
}

// Parent returns the parent region slug, if any
func (r Region) Parent() (string, bool) {
	if !r.ParentSlug.Valid || r.ParentSlug.String == "" {
		return "", false
	}
	return r.ParentSlug.String, true
}

// Port represents a terminal shipping location inside exactly one region
type Port struct {
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	ParentSlug string `db:"parent_slug" json:"parent_slug"`
}

// NewRegion is a convenience constructor used by fixtures and tests
func NewRegion(slug, name, parent string) Region {
	r := Region{Slug: slug, Name: name}
	if parent != "" {
		r.ParentSlug = sql.NullString{String: parent, Valid: true}
	}
	return r
}
