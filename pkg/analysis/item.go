// Package analysis defines the data model for KRDS compliance audits: scored
// category items, the four fixed rubric sections, the assembled analysis
// result, and the exception audit record. The model favors leniency over
// validation — malformed input narrows to safe defaults instead of failing.
package analysis

import (
	"encoding/json"
	"strconv"
)

// CategoryItem is a single scored finding within a section. Which key field
// identifies the item depends on the section (category for design styles,
// type for components, name for patterns); the unused key fields stay empty.
// Compliance mirrors the score numerically for design styles and is a status
// string for the other sections, so it is held as an untyped value.
type CategoryItem struct {
	Category        string   `json:"category,omitempty"`
	Type            string   `json:"type,omitempty"`
	Name            string   `json:"name,omitempty"`
	EnglishName     string   `json:"englishName,omitempty"`
	Label           string   `json:"label,omitempty"`
	Score           int      `json:"score"`
	Compliance      any      `json:"compliance,omitempty"`
	Issues          []string `json:"issues"`
	Excluded        bool     `json:"excluded,omitempty"`
	ExclusionReason string   `json:"exclusionReason,omitempty"`
}

// Compliance status strings used by the sections whose compliance field is
// textual.
const (
	StatusCompliant    = "준수"
	StatusPartial      = "부분 준수"
	StatusNonCompliant = "미준수"
)

// StatusForScore maps a 0-100 score to its compliance status string.
func StatusForScore(score int) string {
	switch {
	case score >= 100:
		return StatusCompliant
	case score >= 50:
		return StatusPartial
	default:
		return StatusNonCompliant
	}
}

// FirstNonEmpty returns the first non-empty candidate, or "". Every fallback
// chain in the engine goes through this so the chain order cannot diverge
// between call sites.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// Key resolves the item's matching key for the given section: the section's
// designated key field, then name, then englishName, then "".
func (c *CategoryItem) Key(s Section) string {
	var primary string
	switch s.KeyField() {
	case "category":
		primary = c.Category
	case "type":
		primary = c.Type
	default:
		primary = c.Name
	}
	return FirstNonEmpty(primary, c.Name, c.EnglishName)
}

// Clone returns an independent copy of the item.
func (c CategoryItem) Clone() CategoryItem {
	out := c
	out.Issues = append([]string(nil), c.Issues...)
	return out
}

// categoryItemJSON mirrors CategoryItem with raw score/compliance so that
// decoding can degrade instead of erroring on malformed values.
type categoryItemJSON struct {
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	EnglishName     string          `json:"englishName"`
	Label           string          `json:"label"`
	Score           json.RawMessage `json:"score"`
	Compliance      json.RawMessage `json:"compliance"`
	Issues          []string        `json:"issues"`
	Excluded        bool            `json:"excluded"`
	ExclusionReason string          `json:"exclusionReason"`
}

// UnmarshalJSON decodes a category item leniently. A missing or non-numeric
// score falls back to a numeric compliance value, then to 0. Numeric
// compliance values are normalized to int so later type switches see either
// string or int, never float64.
func (c *CategoryItem) UnmarshalJSON(data []byte) error {
	var raw categoryItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Category = raw.Category
	c.Type = raw.Type
	c.Name = raw.Name
	c.EnglishName = raw.EnglishName
	c.Label = raw.Label
	c.Issues = raw.Issues
	c.Excluded = raw.Excluded
	c.ExclusionReason = raw.ExclusionReason

	c.Compliance = decodeCompliance(raw.Compliance)

	if score, ok := decodeScore(raw.Score); ok {
		c.Score = score
	} else if n, ok := c.Compliance.(int); ok {
		c.Score = clampScore(n)
	} else {
		c.Score = 0
	}
	return nil
}

func decodeScore(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return clampScore(int(f + 0.5)), true
}

func decodeCompliance(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	return nil
}

// ComplianceAsInt extracts a numeric compliance value when present. Strings
// holding digits count as numeric because some upstream serializers quote
// numbers.
func (c *CategoryItem) ComplianceAsInt() (int, bool) {
	switch v := c.Compliance.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
