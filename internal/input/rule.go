package input

import "strings"

// MatchMode selects how a detection label is compared.
type MatchMode int

const (
	MatchEquals MatchMode = iota
	MatchContains
)

// Rule decides whether a detection counts as a stop.
type Rule struct {
	Label     string
	Mode      MatchMode
	Threshold float64
}

// GestureRule matches an open hand with high confidence.
func GestureRule() Rule {
	return Rule{Label: "open", Mode: MatchContains, Threshold: 0.9}
}

// VoiceRule matches the spoken word "stop".
func VoiceRule() Rule {
	return Rule{Label: "stop", Mode: MatchEquals, Threshold: 0.75}
}

// Matches reports whether d passes the label and confidence checks.
// Labels compare case-insensitively.
func (r Rule) Matches(d Detection) bool {
	if d.Confidence < r.Threshold {
		return false
	}
	label := strings.ToLower(strings.TrimSpace(d.Label))
	want := strings.ToLower(r.Label)
	if r.Mode == MatchContains {
		return strings.Contains(label, want)
	}
	return label == want
}
