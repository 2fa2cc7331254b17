package cli

import (
	"context"

	"github.com/agnivade/levenshtein"

	"github.com/bunchhieng/sqid/internal/storage"
)

// maxSuggestionDistance is the max edit distance for "did you mean" suggestions
const maxSuggestionDistance = 2

// suggestID returns the ID of a stored link close to id, or "" if none is.
func (c *Commands) suggestID(id string) string {
	links, err := c.storage.List(context.Background(), storage.ListOptions{ReadStatus: storage.ReadStatusAll})
	if err != nil || len(links) == 0 {
		return ""
	}
	if err := c.ids.Fill(links...); err != nil {
		return ""
	}

	candidates := make([]string, len(links))
	for i, link := range links {
		candidates[i] = link.ID
	}
	return findClosest(id, candidates)
}

// findClosest returns the closest match from candidates, or empty if none are close enough.
func findClosest(input string, candidates []string) string {
	var best string
	bestDist := maxSuggestionDistance + 1

	for _, c := range candidates {
		if c == input {
			continue
		}
		if dist := levenshtein.ComputeDistance(input, c); dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
