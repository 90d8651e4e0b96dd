// Package parser converts raw runner output into normalized parse events.
//
// Two grammars are supported: the flat list printed by `phpunit
// --list-tests` (discovery) and TeamCity service messages printed by
// `phpunit --teamcity` (execution). Both parsers are incremental: they
// tolerate records split across arbitrary chunk boundaries and ignore
// lines that match neither grammar, so extra runner diagnostics never
// break a run.
package parser

import (
	"strings"
	"time"

	"pta/internal/domain"
)

// EventType tags the variants of Event.
type EventType string

const (
	SuiteStarted  EventType = "suite-started"
	SuiteFinished EventType = "suite-finished"
	CaseFound     EventType = "case-found" // discovery only
	CaseStarted   EventType = "case-started"
	CaseResult    EventType = "case-result"
)

// Event is one normalized record parsed from runner output.
type Event struct {
	Type     EventType
	Name     string // suite segment or case label
	Outcome  domain.Outcome
	Message  string
	Detail   string
	Duration time.Duration
}

// Incremental is a parser fed with raw output chunks. Feed returns the
// events completed by the chunk; Flush drains any buffered partial line
// as a best-effort final record. Neither ever fails: unrecognized input
// is skipped.
type Incremental interface {
	Feed(chunk string) []Event
	Flush() []Event
}

// lineBuffer accumulates chunks and yields complete lines.
type lineBuffer struct {
	pending string
}

// Lines appends a chunk and returns the lines it completed.
func (b *lineBuffer) Lines(chunk string) []string {
	b.pending += chunk
	var lines []string
	for {
		i := strings.IndexByte(b.pending, '\n')
		if i < 0 {
			return lines
		}
		lines = append(lines, strings.TrimSuffix(b.pending[:i], "\r"))
		b.pending = b.pending[i+1:]
	}
}

// Rest returns and clears the trailing unterminated fragment.
func (b *lineBuffer) Rest() string {
	rest := b.pending
	b.pending = ""
	return strings.TrimSuffix(rest, "\r")
}
