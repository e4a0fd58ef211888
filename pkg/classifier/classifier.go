// Package classifier maps free-text activity descriptions onto the fixed
// swim-type taxonomy with a confidence score and a non-exclusive tag set.
// Classification is a total function: every input yields a result, falling
// back to a low-confidence default when no rule matches.
package classifier

import (
	"strings"

	"github.com/swimto/poolsync/pkg/sessions"
)

// FallbackConfidence is assigned when no rule matches and the classifier
// falls back to the default swim type.
const FallbackConfidence = 0.5

// FallbackType is the swim type assigned when no rule matches. Unqualified
// pool time in the upstream feeds is overwhelmingly lane time.
const FallbackType = sessions.LaneSwim

// Activity is the classification result for one program listing.
// Never mutated after creation.
type Activity struct {
	SwimType   sessions.SwimType `json:"swim_type"`
	Confidence float64           `json:"confidence"` // Always in [0, 1]
	Tags       []string          `json:"tags,omitempty"`
	AgeGroup   string            `json:"age_group,omitempty"` // youth, adult, senior, family
}

// Classifier evaluates an ordered rule list over program text.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier. With no arguments it uses the built-in rule
// table; custom rules are re-sorted by descending priority so callers may
// supply them in any order.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		return &Classifier{rules: DefaultRules()}
	}
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sortRules(sorted)
	return &Classifier{rules: sorted}
}

// Classify maps a title and category description to a swim type with
// confidence. The highest-priority matching rule wins; when several rules
// share a priority the earliest in the table wins. Unmatched input yields
// the fallback type at FallbackConfidence. Classify never fails.
func (c *Classifier) Classify(title, category string) Activity {
	text := normalize(title + " " + category)

	activity := Activity{
		SwimType:   FallbackType,
		Confidence: FallbackConfidence,
	}

	for _, rule := range c.rules {
		if rule.Pattern.MatchString(text) {
			activity.SwimType = rule.Type
			activity.Confidence = clamp(rule.Confidence)
			break
		}
	}

	activity.Tags = extractTags(text)
	activity.AgeGroup = detectAgeGroup(text)
	return activity
}

// IsSwimActivity is the fast pre-filter: a cheap keyword containment check
// used to discard non-swim programs before full classification.
func IsSwimActivity(title, category string) bool {
	text := normalize(title + " " + category)
	for _, keyword := range swimKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// extractTags runs the non-exclusive tag pass over normalized text.
func extractTags(text string) []string {
	var tags []string
	for _, tp := range tagPatterns {
		if tp.pattern.MatchString(text) {
			tags = append(tags, tp.tag)
		}
	}
	return tags
}

// detectAgeGroup returns the first matching audience band, or empty.
func detectAgeGroup(text string) string {
	for _, ap := range ageGroupPatterns {
		if ap.pattern.MatchString(text) {
			return ap.group
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
