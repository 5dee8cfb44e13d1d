package scripts

import (
	"context"
	"sort"

	"github.com/bjageman/botc-scripts/options"
)

type CharacterCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Statistics counts character usage over the latest version of every script.
type Statistics struct {
	Character string           `json:"character,omitempty"`
	Total     int              `json:"total"`
	Usage     []CharacterCount `json:"usage"`
}

// Statistics counts characters across latest versions. With a character
// set, only scripts containing it are counted and the character itself is
// left out of Usage.
func (m *Manager) Statistics(ctx context.Context, character string) (*Statistics, error) {
	opts := options.Find().LatestOnly()
	if character != "" {
		opts.Containing(character)
	}

	var records []*Record
	if err := m.store.View(ctx, func(tx Tx) error {
		var err error
		records, err = tx.Find(opts)
		return err
	}); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	scripts := make(map[string]struct{})
	for _, r := range records {
		scripts[r.ScriptID] = struct{}{}
		seen := make(map[string]bool)
		for _, id := range r.Content.Characters() {
			if id == character || seen[id] {
				continue
			}
			seen[id] = true
			counts[id]++
		}
	}

	stats := &Statistics{
		Character: character,
		Total:     len(scripts),
		Usage:     make([]CharacterCount, 0, len(counts)),
	}

	if character != "" {
		stats.Total = len(records)
	}

	for id, n := range counts {
		stats.Usage = append(stats.Usage, CharacterCount{ID: id, Count: n})
	}

	sort.Slice(stats.Usage, func(i, j int) bool {
		if stats.Usage[i].Count != stats.Usage[j].Count {
			return stats.Usage[i].Count > stats.Usage[j].Count
		}
		return stats.Usage[i].ID < stats.Usage[j].ID
	})

	return stats, nil
}

func (s *Statistics) MostCommon(n int) []CharacterCount {
	if n > len(s.Usage) {
		n = len(s.Usage)
	}
	return s.Usage[:n]
}

// LeastCommon returns the n rarest characters, rarest first.
func (s *Statistics) LeastCommon(n int) []CharacterCount {
	if n > len(s.Usage) {
		n = len(s.Usage)
	}

	least := make([]CharacterCount, 0, n)
	for i := len(s.Usage) - 1; i >= len(s.Usage)-n; i-- {
		least = append(least, s.Usage[i])
	}
	return least
}
