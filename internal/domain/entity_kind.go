package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEntity is returned when an entity kind cannot be resolved.
var ErrUnknownEntity = errors.New("unknown entity kind")

// EntityKind enumerates the record collections served by the dashboard.
type EntityKind string

const (
	EntityKindAccounts  EntityKind = "accounts"
	EntityKindCenters   EntityKind = "centers"
	EntityKindFunctions EntityKind = "functions"
	EntityKindServices  EntityKind = "services"
	EntityKindProspects EntityKind = "prospects"
)

// EntityKinds lists every kind in display order.
func EntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindAccounts,
		EntityKindCenters,
		EntityKindFunctions,
		EntityKindServices,
		EntityKindProspects,
	}
}

// ParseEntityKind resolves user input such as "Centers" or "center" to a kind.
func ParseEntityKind(raw string) (EntityKind, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownEntity)
	}
	for _, kind := range EntityKinds() {
		if value == string(kind) || value+"s" == string(kind) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntity, raw)
}

// Label returns a human readable name used for sheet titles.
func (k EntityKind) Label() string {
	switch k {
	case EntityKindAccounts:
		return "Accounts"
	case EntityKindCenters:
		return "Centers"
	case EntityKindFunctions:
		return "Functions"
	case EntityKindServices:
		return "Services"
	case EntityKindProspects:
		return "Prospects"
	default:
		return string(k)
	}
}
