package intent

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	countPattern     = regexp.MustCompile(`(\d+)\s+(?:chat|conversation)`)
	thresholdPattern = regexp.MustCompile(`(?:score|scores)\s+(?:is|are)\s+(?:below|under|less than)\s+(\d+(?:\.\d+)?)`)
	hardPattern      = regexp.MustCompile(`if\s+(?:any\s+|average\s+|avg\s+)?score\s+(?:is\s+)?(?:below|<)\s+(\d+(?:\.\d+)?)`)
	// mutationPattern recognises an explicit request for a prompt update or
	// pull request, with or without articles ("create a PR", "update the
	// system prompt").
	mutationPattern = regexp.MustCompile(`update\s+(?:the\s+)?(?:system\s+)?prompt|create\s+(?:a\s+)?pr\b|pull request`)
)

var (
	inspectKeywords = []string{"review", "evaluate", "check"}
	mutateKeywords  = []string{"update", "improve"}
	readKeywords    = []string{"review", "evaluate", "get", "show", "list"}
	listKeywords    = []string{"get", "show", "list", "display"}
)

// rule is a single entry of the classification table. Rules are evaluated
// top-to-bottom; the first match wins. Keeping classification as a flat,
// ordered table rather than a grammar makes priority and fallback auditable.
type rule struct {
	name    string
	matches func(goal string) bool
	action  Action
}

var rules = []rule{
	{
		name: "inspect and mutate",
		matches: func(goal string) bool {
			return containsAny(goal, inspectKeywords) &&
				(containsAny(goal, mutateKeywords) || mutationPattern.MatchString(goal))
		},
		action: InspectAndMutate,
	},
	{
		name: "inspect only",
		matches: func(goal string) bool {
			return containsAny(goal, inspectKeywords)
		},
		action: Inspect,
	},
	{
		name: "direct mutate",
		matches: func(goal string) bool {
			return mutationPattern.MatchString(goal) && !containsAny(goal, readKeywords)
		},
		action: DirectMutate,
	},
}

// Extract parses a free-text goal into an Intent. It never fails; goals that
// match no rule yield Unknown with default parameters.
func Extract(goal string) Intent {
	normalized := strings.ToLower(goal)

	ret := Intent{
		Action:           Unknown,
		Count:            defaultCount,
		ScoreThreshold:   defaultScoreThreshold,
		ExplicitMutation: mutationPattern.MatchString(normalized),
		ListRequested:    containsAny(normalized, listKeywords),
	}

	if match := countPattern.FindStringSubmatch(normalized); match != nil {
		if count, err := strconv.Atoi(match[1]); err == nil {
			ret.Count = count
		}
	}
	if match := thresholdPattern.FindStringSubmatch(normalized); match != nil {
		if threshold, err := strconv.ParseFloat(match[1], 64); err == nil {
			ret.ScoreThreshold = threshold
		}
	}
	if match := hardPattern.FindStringSubmatch(normalized); match != nil {
		if threshold, err := strconv.ParseFloat(match[1], 64); err == nil {
			ret.HardThreshold = &threshold
		}
	}

	for _, candidate := range rules {
		if candidate.matches(normalized) {
			ret.Action = candidate.action
			break
		}
	}
	return ret
}

func containsAny(goal string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(goal, keyword) {
			return true
		}
	}
	return false
}
