package classifier

import (
	"regexp"
	"sort"

	"github.com/swimto/poolsync/pkg/sessions"
)

// Rule is one keyword-pattern classification rule. Rules are evaluated
// highest priority first and the first match wins, so priorities must put
// specific terms (lane) ahead of generic ones (adult).
type Rule struct {
	Pattern    *regexp.Regexp
	Type       sessions.SwimType
	Priority   int
	Confidence float64
}

// swimKeywords is the fast pre-filter vocabulary: a program whose title or
// category contains none of these is not a swim activity and never reaches
// the full rule evaluation.
var swimKeywords = []string{
	"lane swim", "lane swimming", "lap swim", "lap swimming",
	"leisure swim", "recreational swim", "family swim",
	"adult swim", "senior swim", "aquafit", "aqua fit",
	"water fit", "aquacise", "aqua aerobics",
	"public swim", "open swim", "drop-in swim", "swim",
}

// defaultRules is the built-in rule table. Confidence bands: 1.0 for an
// exact dedicated keyword, 0.7-0.9 for a strong single keyword, 0.5-0.7 for
// an inferred/combination pattern.
var defaultRules = []Rule{
	{
		Pattern:    regexp.MustCompile(`\blane\b|lap\s+swim|length\s+swim`),
		Type:       sessions.LaneSwim,
		Priority:   100,
		Confidence: 1.0,
	},
	{
		Pattern:    regexp.MustCompile(`aqua\s*fit|water\s*fit|aqua\s*cise|aqua\s+aerobics|water\s+aerobics`),
		Type:       sessions.Aquafit,
		Priority:   90,
		Confidence: 0.9,
	},
	{
		Pattern:    regexp.MustCompile(`senior\s+swim|seniors?\s+only|older\s+adult`),
		Type:       sessions.SeniorSwim,
		Priority:   80,
		Confidence: 0.85,
	},
	{
		Pattern:    regexp.MustCompile(`adult\s+swim|adults?\s+only`),
		Type:       sessions.AdultSwim,
		Priority:   70,
		Confidence: 0.8,
	},
	{
		Pattern:    regexp.MustCompile(`leisure\s+swim|recreational\s+swim|family\s+swim|public\s+swim|open\s+swim`),
		Type:       sessions.Recreational,
		Priority:   60,
		Confidence: 0.85,
	},
	{
		// Generic mention of swimming with no qualifier.
		Pattern:    regexp.MustCompile(`\bswim(ming)?\b`),
		Type:       sessions.Recreational,
		Priority:   10,
		Confidence: 0.6,
	},
}

// DefaultRules returns a copy of the built-in rule table sorted by
// descending priority.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	sortRules(rules)
	return rules
}

func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}

// tagPatterns is the non-exclusive tag extraction pass. Any number of tags
// may attach regardless of which rule classified the activity.
var tagPatterns = []struct {
	pattern *regexp.Regexp
	tag     string
}{
	{regexp.MustCompile(`\badults?\b`), "adults_only"},
	{regexp.MustCompile(`\bseniors?\b`), "seniors"},
	{regexp.MustCompile(`\bfamily\b`), "family_friendly"},
	{regexp.MustCompile(`\bdeep\b`), "deep_water"},
	{regexp.MustCompile(`\bshallow\b`), "shallow_water"},
	{regexp.MustCompile(`\bwomen'?s?\s+only\b`), "womens_only"},
}

// ageGroupPatterns detect the audience age band, checked in order: the most
// specific audience mention wins.
var ageGroupPatterns = []struct {
	pattern *regexp.Regexp
	group   string
}{
	{regexp.MustCompile(`\b(child|kids?|youth)\b`), "youth"},
	{regexp.MustCompile(`\b(senior|55\+|60\+|65\+)\b`), "senior"},
	{regexp.MustCompile(`\b(adult|19\+|18\+)\b`), "adult"},
	{regexp.MustCompile(`\bfamily\b`), "family"},
}
