// Package models defines the data structures exchanged between the matching
// engine's components: item descriptors, participants, pair scores and
// discovered exchange chains.
package models

import "fmt"

// ExchangeKind distinguishes permanent trades (ownership changes hands) from
// temporary ones (rental-style, bounded by a duration in days).
type ExchangeKind string

const (
	// ExchangeKindPermanent is a one-off swap of ownership.
	ExchangeKindPermanent ExchangeKind = "permanent"

	// ExchangeKindTemporary is a time-bounded exchange; items of this kind
	// always carry a duration in days.
	ExchangeKindTemporary ExchangeKind = "temporary"
)

// Valid reports whether k is one of the two known kinds.
func (k ExchangeKind) Valid() bool {
	return k == ExchangeKindPermanent || k == ExchangeKindTemporary
}

// ItemDescriptor is an immutable snapshot of a listed item, either wanted or
// offered by a participant. The listing subsystem owns these records; the
// engine only reads them.
type ItemDescriptor struct {
	ID      string `yaml:"id" json:"id"`
	OwnerID string `yaml:"owner_id,omitempty" json:"owner_id,omitempty"`

	// Category is a free-form tag ("электроника", "transport", ...). Pairs
	// are only ever scored within a single category.
	Category string       `yaml:"category" json:"category"`
	Kind     ExchangeKind `yaml:"kind" json:"kind"`

	// Value is the declared monetary-equivalent value, always positive.
	Value float64 `yaml:"value" json:"value"`

	// DurationDays is set iff Kind is temporary.
	DurationDays int `yaml:"duration_days,omitempty" json:"duration_days,omitempty"`

	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// IsTemporary reports whether the item is a time-bounded exchange.
func (i ItemDescriptor) IsTemporary() bool {
	return i.Kind == ExchangeKindTemporary
}

func (i ItemDescriptor) String() string {
	return fmt.Sprintf("%s (%s/%s, value=%.0f)", i.ID, i.Category, i.Kind, i.Value)
}
