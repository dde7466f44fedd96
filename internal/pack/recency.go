package pack

import (
	"time"

	"github.com/starford/muninn/internal/models"
)

// Recent returns the ids of notes whose updated date falls within the
// trailing window of the given number of days. days ≤ 0 returns an empty
// set: the recency window is strictly opt-in, zero does not mean "today".
func Recent(notes []*models.Note, now time.Time, days int) map[string]struct{} {
	out := make(map[string]struct{})
	if days <= 0 {
		return out
	}
	window := time.Duration(days) * 24 * time.Hour
	for _, n := range notes {
		if now.Sub(n.Updated) <= window {
			out[n.ID] = struct{}{}
		}
	}
	return out
}
