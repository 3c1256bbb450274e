package domain

import "time"

// Dataset is the full set of records the dashboard works on.
type Dataset struct {
	Accounts  []Account  `json:"accounts"`
	Centers   []Center   `json:"centers"`
	Functions []Function `json:"functions"`
	Services  []Service  `json:"services"`
	Prospects []Prospect `json:"prospects"`
	LoadedAt  time.Time  `json:"loaded_at"`
}

// Count returns the number of records of the given kind.
func (d *Dataset) Count(kind EntityKind) int {
	if d == nil {
		return 0
	}
	switch kind {
	case EntityKindAccounts:
		return len(d.Accounts)
	case EntityKindCenters:
		return len(d.Centers)
	case EntityKindFunctions:
		return len(d.Functions)
	case EntityKindServices:
		return len(d.Services)
	case EntityKindProspects:
		return len(d.Prospects)
	default:
		return 0
	}
}
