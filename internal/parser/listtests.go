package parser

import "strings"

// ListParser parses `phpunit --list-tests` output, e.g.
//
//	Available test(s):
//	 - Tests\Unit\UserTest::testCreate
//	 - Tests\Unit\UserTest::testCreate with data set #0
//
// Suite nesting is derived from the namespace/class path: each `\`
// separated segment becomes one suite level. Begin/end-suite events are
// emitted by diffing successive paths, so a change of class closes the
// suites the new case is not part of.
type ListParser struct {
	buf  lineBuffer
	open []string // currently-open suite path
}

// NewListParser returns an empty discovery parser.
func NewListParser() *ListParser {
	return &ListParser{}
}

// Feed consumes a raw output chunk and returns the completed events.
func (p *ListParser) Feed(chunk string) []Event {
	var events []Event
	for _, line := range p.buf.Lines(chunk) {
		events = append(events, p.parseLine(line)...)
	}
	return events
}

// Flush parses any trailing partial line, then closes the open suites.
func (p *ListParser) Flush() []Event {
	var events []Event
	if rest := p.buf.Rest(); strings.TrimSpace(rest) != "" {
		events = append(events, p.parseLine(rest)...)
	}
	for range p.open {
		events = append(events, Event{Type: SuiteFinished})
	}
	p.open = nil
	return events
}

func (p *ListParser) parseLine(line string) []Event {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "- ") {
		return nil // banner, blank line, or other diagnostic
	}
	entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
	class, method, ok := strings.Cut(entry, "::")
	if !ok || class == "" || method == "" {
		return nil
	}

	path := strings.Split(class, "\\")
	var events []Event

	// Close suites below the common prefix, then open the new ones.
	common := 0
	for common < len(p.open) && common < len(path) && p.open[common] == path[common] {
		common++
	}
	for i := len(p.open); i > common; i-- {
		events = append(events, Event{Type: SuiteFinished})
	}
	for _, seg := range path[common:] {
		events = append(events, Event{Type: SuiteStarted, Name: seg})
	}
	p.open = path

	events = append(events, Event{Type: CaseFound, Name: method})
	return events
}
