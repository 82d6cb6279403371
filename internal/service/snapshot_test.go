package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilzhanb/baribar/internal/models"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validSnapshot = `participants:
  - id: aigerim
    locations: [Алматы]
    rating: 4.8
    wants:
      electronics:
        - id: w-phone
          kind: permanent
          value: 250000
          label: электроника
    offers:
      books:
        - id: o-book
          kind: permanent
          value: 12000
          label: книга
  - id: marat
    locations: [almaty]
    offers:
      electronics:
        - id: o-iphone
          category: electronics
          kind: permanent
          value: 240000
          label: iPhone
`

func TestLoadSnapshot(t *testing.T) {
	path := writeSnapshot(t, validSnapshot)

	participants, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, participants, 2)

	aigerim := participants[0]
	assert.Equal(t, "aigerim", aigerim.ID)
	require.NotNil(t, aigerim.Rating)
	assert.InDelta(t, 4.8, *aigerim.Rating, 1e-9)

	// Owner and category defaults are filled in from context.
	want := aigerim.Wants["electronics"][0]
	assert.Equal(t, "aigerim", want.OwnerID)
	assert.Equal(t, "electronics", want.Category)

	offer := participants[1].Offers["electronics"][0]
	assert.Equal(t, "marat", offer.OwnerID)
}

func TestLoadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing participant id",
			"participants:\n  - locations: [Алматы]\n",
			"has no id",
		},
		{
			"duplicate participant id",
			"participants:\n  - id: p1\n  - id: p1\n",
			"duplicate participant id",
		},
		{
			"item without id",
			"participants:\n  - id: p1\n    wants:\n      books:\n        - kind: permanent\n          value: 100\n          label: книга\n",
			"item without id",
		},
		{
			"duplicate item id",
			"participants:\n  - id: p1\n    wants:\n      books:\n        - id: i1\n          kind: permanent\n          value: 100\n          label: книга\n  - id: p2\n    offers:\n      books:\n        - id: i1\n          kind: permanent\n          value: 100\n          label: книга\n",
			"duplicate item id",
		},
		{
			"malformed yaml",
			"participants: [not closed",
			"parse snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot(writeSnapshot(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestFindParticipant(t *testing.T) {
	participants := []models.Participant{{ID: "a"}, {ID: "b"}}

	p, err := FindParticipant(participants, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", p.ID)

	_, err = FindParticipant(participants, "zzz")
	require.Error(t, err)
}
