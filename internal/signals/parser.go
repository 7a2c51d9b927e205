// Package signals extracts the hidden reward marker the mentor appends to a reply.
//
// The marker grammar is ||ACHIEVEMENT_<KIND>|| with KIND one of SIMPLE, HARD or EXTREME.
// At most one marker is honored per reply: the first one in the text.
package signals

import (
	"regexp"
	"strings"

	"github.com/sandeepkv93/mentord/internal/gamification"
)

var markerPattern = regexp.MustCompile(`\|\|ACHIEVEMENT_(SIMPLE|HARD|EXTREME)\|\|`)

// Signal is a marker found in a reply. Start and End are byte offsets of the marker.
type Signal struct {
	Kind  gamification.SignalKind
	Start int
	End   int
}

// Parse reports the first marker in text.
func Parse(text string) (Signal, bool) {
	loc := markerPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return Signal{}, false
	}
	return Signal{
		Kind:  gamification.SignalKind(text[loc[2]:loc[3]]),
		Start: loc[0],
		End:   loc[1],
	}, true
}

// Strip removes sig's marker from text and trims the surrounding whitespace.
func Strip(text string, sig Signal) string {
	return strings.TrimSpace(text[:sig.Start] + text[sig.End:])
}
