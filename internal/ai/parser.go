package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

// extractJSON pulls the JSON document out of a model response. Models
// occasionally wrap their output in markdown fences despite instructions,
// so fences are stripped before validation.
func extractJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	if !json.Valid([]byte(trimmed)) {
		return "", errors.New("model returned non-JSON output")
	}
	return trimmed, nil
}

// parseExtractResult decodes an extraction response. Quantities default to 1
// and items without a name are dropped.
func parseExtractResult(text string) (ExtractResult, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return ExtractResult{}, err
	}
	var result ExtractResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return ExtractResult{}, errors.New("invalid extraction JSON")
	}
	items := result.Items[:0]
	for _, item := range result.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	result.Items = items
	return result, nil
}

// parseSuggestions decodes a suggestion response into an itemName ->
// personName map. Empty keys or values are dropped.
func parseSuggestions(text string) (map[string]string, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, errors.New("invalid suggestion JSON")
	}
	for item, person := range mapping {
		if strings.TrimSpace(item) == "" || strings.TrimSpace(person) == "" {
			delete(mapping, item)
		}
	}
	return mapping, nil
}
