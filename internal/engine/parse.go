package engine

import (
	"encoding/json"
	"strings"

	"marginalia/pkg/types"
)

// ExtractItems pulls structured feedback items out of raw model output.
// Small models wrap JSON in prose more often than not, so this scans for the
// outermost array and tolerates failure: a nil result is not an error, the
// raw text is always returned to the caller alongside it.
func ExtractItems(raw string) []types.FeedbackItem {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end <= start {
		return nil
	}
	var items []types.FeedbackItem
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
