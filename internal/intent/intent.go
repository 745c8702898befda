package intent

import "strings"

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentOffers       Intent = "offers"
	IntentImprovements Intent = "improvements"
	IntentOther        Intent = "other"

	// IntentUnrecognized is the default arm: classifier output that matched
	// no known label. Not an error, it produces a "please rephrase" reply.
	IntentUnrecognized Intent = "unrecognized"
)

// matchOrder fixes the priority of substring matching. The classifier may
// answer with extra verbosity, so labels are matched by containment rather
// than equality; when several label words co-occur the first match wins.
var matchOrder = []Intent{
	IntentGreeting,
	IntentOther,
	IntentImprovements,
	IntentOffers,
}

// Parse maps raw classifier output to an Intent. Input is trimmed and
// lowercased before the containment check.
func Parse(raw string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	for _, label := range matchOrder {
		if strings.Contains(normalized, string(label)) {
			return label
		}
	}

	return IntentUnrecognized
}
