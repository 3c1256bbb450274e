package domain

import "strings"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// ParseSortDirection defaults to ascending for anything but "desc".
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(raw), string(SortDirectionDesc)) {
		return SortDirectionDesc
	}
	return SortDirectionAsc
}

// TableSort captures ordering preferences for a table listing. Column is a
// column key from the table registry; empty keeps source order.
type TableSort struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}
