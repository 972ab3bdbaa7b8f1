// Package query holds the commodity list-query parameters accepted by
// every list endpoint: page, limit, sort, fields, searchTerm.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Options represents normalized list-query parameters.
type Options struct {
	Page       int
	Limit      int
	Sort       string // comma-separated columns, "-" prefix for descending
	Fields     []string
	SearchTerm string
}

// FromValues parses list-query parameters from a URL query string.
func FromValues(v url.Values) *Options {
	o := &Options{
		Sort:       v.Get("sort"),
		SearchTerm: v.Get("searchTerm"),
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil {
		o.Page = page
	}
	if limit, err := strconv.Atoi(v.Get("limit")); err == nil {
		o.Limit = limit
	}
	if fields := v.Get("fields"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				o.Fields = append(o.Fields, f)
			}
		}
	}
	o.Normalize()
	return o
}

// Normalize clamps pagination parameters to sane bounds.
func (o *Options) Normalize() {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < MinPageSize {
		o.Limit = DefaultPageSize
	} else if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
}

// Offset calculates the database offset from page and limit.
func (o *Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

// Meta represents pagination metadata in list responses.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// NewMeta creates pagination metadata from parameters and total count.
func NewMeta(page, limit int, total int64) Meta {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return Meta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
