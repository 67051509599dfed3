package normalize

import "sort"

// CategoryRule maps a set of keywords to a category. Rules are evaluated in
// order; the first rule with any keyword found as a case-insensitive
// substring of the text wins.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategoryRules is the built-in keyword table for video
// classification. Callers may substitute their own table (e.g. from
// configuration) without touching orchestration logic.
var DefaultCategoryRules = []CategoryRule{
	{Category: "technology", Keywords: []string{"tech", "coding", "programming", "software", "developer", "gadget", "review"}},
	{Category: "travel", Keywords: []string{"travel", "trip", "tour", "journey", "visit", "explore"}},
	{Category: "food", Keywords: []string{"food", "recipe", "cooking", "restaurant", "street food", "eating"}},
	{Category: "daily-life", Keywords: []string{"vlog", "daily", "routine", "day in", "life"}},
	{Category: "education", Keywords: []string{"tutorial", "learn", "course", "how to", "explained", "lesson"}},
	{Category: "entertainment", Keywords: []string{"funny", "comedy", "music", "gaming", "reaction", "challenge"}},
}

// DefaultCategory applies when no rule matches.
const DefaultCategory = "daily-life"

// shortFormMarkers flag a video as short-form when any appears in the title
// or description, case-insensitively.
var shortFormMarkers = []string{"#shorts", "#short", "shorts", "#reel", "#reels"}

// RulesFromMap builds a rule table from configuration. Map iteration order
// is random, so categories are sorted by name to keep first-match-wins
// deterministic across runs.
func RulesFromMap(categories map[string][]string) []CategoryRule {
	if len(categories) == 0 {
		return DefaultCategoryRules
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]CategoryRule, 0, len(names))
	for _, name := range names {
		rules = append(rules, CategoryRule{Category: name, Keywords: categories[name]})
	}
	return rules
}
