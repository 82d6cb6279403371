package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adilzhanb/baribar/internal/models"
)

// Snapshot is the YAML shape of a materialized listing snapshot: the
// external listing subsystem exports these, the engine only reads them.
type Snapshot struct {
	Participants []models.Participant `yaml:"participants"`
}

// LoadSnapshot reads a participant snapshot file, filling in item owner IDs
// and rejecting duplicate participant or item identifiers.
func LoadSnapshot(path string) ([]models.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	seenParticipants := make(map[string]bool, len(snap.Participants))
	seenItems := make(map[string]bool)

	for i := range snap.Participants {
		p := &snap.Participants[i]
		if p.ID == "" {
			return nil, fmt.Errorf("participant %d has no id", i)
		}
		if seenParticipants[p.ID] {
			return nil, fmt.Errorf("duplicate participant id %q", p.ID)
		}
		seenParticipants[p.ID] = true

		for _, side := range []map[string][]models.ItemDescriptor{p.Wants, p.Offers} {
			for cat, items := range side {
				for j := range items {
					item := &items[j]
					if item.ID == "" {
						return nil, fmt.Errorf("participant %q has an item without id in category %q", p.ID, cat)
					}
					if seenItems[item.ID] {
						return nil, fmt.Errorf("duplicate item id %q", item.ID)
					}
					seenItems[item.ID] = true

					if item.OwnerID == "" {
						item.OwnerID = p.ID
					}
					if item.Category == "" {
						item.Category = cat
					}
				}
			}
		}
	}

	return snap.Participants, nil
}

// FindParticipant returns the participant with the given ID.
func FindParticipant(participants []models.Participant, id string) (models.Participant, error) {
	for _, p := range participants {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Participant{}, fmt.Errorf("participant %q not found in snapshot", id)
}
