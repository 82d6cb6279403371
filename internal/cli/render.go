package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/adilzhanb/baribar/internal/metrics"
	"github.com/adilzhanb/baribar/internal/models"
)

// Theme holds the color scheme for result rendering.
type Theme struct {
	Strong lipgloss.Color
	Ok     lipgloss.Color
	Weak   lipgloss.Color
	Hint   lipgloss.Color
}

var defaultTheme = Theme{
	Strong: lipgloss.Color("#00D787"), // green
	Ok:     lipgloss.Color("#5FAFD7"), // light blue
	Weak:   lipgloss.Color("#FF005F"), // red
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) qualityStyle(q models.Quality) lipgloss.Style {
	switch q {
	case models.QualityPerfect, models.QualityExcellent, models.QualityGreat:
		return lipgloss.NewStyle().Foreground(t.Strong).Bold(true)
	case models.QualityGood, models.QualityFair:
		return lipgloss.NewStyle().Foreground(t.Ok)
	default:
		return lipgloss.NewStyle().Foreground(t.Weak)
	}
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// renderQuality formats a quality label with its score.
func renderQuality(q models.Quality, score float64) string {
	return defaultTheme.qualityStyle(q).Render(fmt.Sprintf("%-9s %.3f", q, score))
}

// printStats renders the metrics snapshot in a stable order.
func printStats(snap metrics.Snapshot) {
	fmt.Printf("\nEngine stats (uptime %.2fs):\n", snap.UptimeSeconds)

	ops := make([]string, 0, len(snap.Operations))
	for op := range snap.Operations {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		o := snap.Operations[op]
		fmt.Printf("  %-16s count=%d total=%dms avg=%.1fus\n",
			op, o.Count, o.TotalTimeMs, o.AvgTimeUs)
	}

	caches := make([]string, 0, len(snap.CacheHits))
	for c := range snap.CacheHits {
		caches = append(caches, c)
	}
	for c := range snap.CacheMisses {
		if _, hit := snap.CacheHits[c]; !hit {
			caches = append(caches, c)
		}
	}
	sort.Strings(caches)
	for _, c := range caches {
		hits, misses := snap.CacheHits[c], snap.CacheMisses[c]
		total := hits + misses
		if total == 0 {
			continue
		}
		fmt.Printf("  %-16s cache hits=%d misses=%d (%.0f%%)\n",
			c, hits, misses, float64(hits)/float64(total)*100)
	}
}
