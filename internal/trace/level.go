package trace

import (
	"fmt"
	"strings"
)

// Level picks the finest Scope a tracer records.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // run and file spans
	LevelDetail       // plus one span per pipeline stage
	LevelDebug        // plus a point per hashed identifier
)

var levelNames = [...]string{"off", "phase", "detail", "debug"}

// finest is the deepest scope recorded at each level.
var finest = [...]Scope{LevelOff: 0, LevelPhase: ScopeFile, LevelDetail: ScopeStage, LevelDebug: ScopeIdent}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads the --trace-level value, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(finest) && scope <= finest[l]
}
