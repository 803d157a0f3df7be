package builder

import (
	"strings"

	"github.com/justin/job-advisor/internal/db"
)

// mergeSets unions incoming values into existing ones, preserving order of
// first appearance. Comparison ignores surrounding whitespace and case so
// "Go" and "go " do not both survive; the first-seen spelling wins.
func mergeSets(existing db.StringArray, incoming []string) db.StringArray {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make(db.StringArray, 0, len(existing)+len(incoming))

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	}

	for _, v := range existing {
		add(v)
	}
	for _, v := range incoming {
		add(v)
	}
	return out
}

// mergeGoals applies last-write-wins semantics to career goals: a non-empty
// incoming block replaces the stored one wholesale, an empty block keeps it.
func mergeGoals(existing, incoming db.CareerGoals) db.CareerGoals {
	if incoming.IsZero() {
		return existing
	}
	return incoming
}

// mergeExtraction folds an extraction into the profile's current values
func mergeExtraction(profile *db.Profile, e *Extraction) (interests, strengths, weaknesses db.StringArray, goals db.CareerGoals) {
	interests = mergeSets(profile.Interests, e.Interests)
	strengths = mergeSets(profile.Strengths, e.Strengths)
	weaknesses = mergeSets(profile.Weaknesses, e.Weaknesses)
	goals = mergeGoals(profile.CareerGoals, e.CareerGoals)
	return interests, strengths, weaknesses, goals
}
