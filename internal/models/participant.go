package models

import "time"

// Participant is an immutable snapshot of a marketplace member: what they
// want, what they offer (both grouped by category), where they are, and the
// trust/recency signals the score aggregator consumes.
type Participant struct {
	ID string `yaml:"id" json:"id"`

	// Wants and Offers map a category to the items held on that side.
	Wants  map[string][]ItemDescriptor `yaml:"wants,omitempty" json:"wants,omitempty"`
	Offers map[string][]ItemDescriptor `yaml:"offers,omitempty" json:"offers,omitempty"`

	// Locations holds declared city names, canonicalized by the location
	// filter before comparison.
	Locations []string `yaml:"locations,omitempty" json:"locations,omitempty"`

	// Rating is the reputation score in [0,5], nil when the participant has
	// no history yet.
	Rating *float64 `yaml:"rating,omitempty" json:"rating,omitempty"`

	// ListedAt is the listing creation time, used for the recency bonus.
	ListedAt *time.Time `yaml:"listed_at,omitempty" json:"listed_at,omitempty"`
}

// WantCategories returns the categories the participant wants items in.
func (p Participant) WantCategories() []string {
	return mapKeys(p.Wants)
}

// OfferCategories returns the categories the participant offers items in.
func (p Participant) OfferCategories() []string {
	return mapKeys(p.Offers)
}

// AllWants flattens the want map into a single slice.
func (p Participant) AllWants() []ItemDescriptor {
	return flatten(p.Wants)
}

// AllOffers flattens the offer map into a single slice.
func (p Participant) AllOffers() []ItemDescriptor {
	return flatten(p.Offers)
}

func mapKeys(m map[string][]ItemDescriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func flatten(m map[string][]ItemDescriptor) []ItemDescriptor {
	var out []ItemDescriptor
	for _, items := range m {
		out = append(out, items...)
	}
	return out
}
