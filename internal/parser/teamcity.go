package parser

import (
	"strconv"
	"strings"
	"time"

	"pta/internal/domain"
)

const teamcityPrefix = "##teamcity["

// TeamCityParser parses the service messages printed by `phpunit
// --teamcity` during a run:
//
//	##teamcity[testSuiteStarted name='Tests\Unit\UserTest']
//	##teamcity[testStarted name='testCreate']
//	##teamcity[testFailed name='testCreate' message='...' details='...']
//	##teamcity[testFinished name='testCreate' duration='12']
//	##teamcity[testSuiteFinished name='Tests\Unit\UserTest']
//
// A case's outcome is decided when its testFinished message arrives:
// passed unless a testFailed or testIgnored was seen for it since its
// testStarted. Suite names are reported verbatim (they may be fully
// qualified class names); callers derive tree positions from them.
type TeamCityParser struct {
	buf     lineBuffer
	pending map[string]Event // failure/skip recorded before testFinished
	open    map[string]bool  // cases started but not yet finished
}

// NewTeamCityParser returns an empty execution parser.
func NewTeamCityParser() *TeamCityParser {
	return &TeamCityParser{
		pending: make(map[string]Event),
		open:    make(map[string]bool),
	}
}

// Feed consumes a raw output chunk and returns the completed events.
func (p *TeamCityParser) Feed(chunk string) []Event {
	var events []Event
	for _, line := range p.buf.Lines(chunk) {
		if ev, ok := p.parseLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Flush parses a trailing partial line best-effort, then emits a result
// for any case that started but never finished (a crashed run ends this
// way; the final outcome is the recorded failure or errored).
func (p *TeamCityParser) Flush() []Event {
	var events []Event
	if rest := p.buf.Rest(); strings.TrimSpace(rest) != "" {
		if ev, ok := p.parseLine(rest); ok {
			events = append(events, ev)
		}
	}
	for name := range p.open {
		if ev, ok := p.pending[name]; ok {
			ev.Type = CaseResult
			events = append(events, ev)
			delete(p.pending, name)
			continue
		}
		events = append(events, Event{
			Type:    CaseResult,
			Name:    name,
			Outcome: domain.OutcomeErrored,
			Message: "test did not finish",
		})
	}
	p.open = make(map[string]bool)
	return events
}

func (p *TeamCityParser) parseLine(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, teamcityPrefix) || !strings.HasSuffix(trimmed, "]") {
		return Event{}, false // progress dots, notices, anything else
	}
	body := trimmed[len(teamcityPrefix) : len(trimmed)-1]
	msg, attrs := parseMessage(body)
	name := attrs["name"]

	switch msg {
	case "testSuiteStarted":
		return Event{Type: SuiteStarted, Name: name}, name != ""
	case "testSuiteFinished":
		return Event{Type: SuiteFinished, Name: name}, true
	case "testStarted":
		p.open[name] = true
		delete(p.pending, name)
		return Event{Type: CaseStarted, Name: name}, name != ""
	case "testFailed":
		outcome := domain.OutcomeFailed
		if attrs["error"] == "true" {
			outcome = domain.OutcomeErrored
		}
		p.pending[name] = Event{
			Name:    name,
			Outcome: outcome,
			Message: attrs["message"],
			Detail:  attrs["details"],
		}
		return Event{}, false
	case "testIgnored":
		p.pending[name] = Event{
			Name:    name,
			Outcome: domain.OutcomeSkipped,
			Message: attrs["message"],
		}
		return Event{}, false
	case "testFinished":
		ev, ok := p.pending[name]
		if !ok {
			ev = Event{Name: name, Outcome: domain.OutcomePassed}
		}
		delete(p.pending, name)
		delete(p.open, name)
		ev.Type = CaseResult
		if ms, err := strconv.ParseFloat(attrs["duration"], 64); err == nil {
			ev.Duration = time.Duration(ms * float64(time.Millisecond))
		}
		return ev, name != ""
	}
	return Event{}, false
}

// parseMessage splits a service-message body into its name and attributes,
// decoding TeamCity escaping inside quoted values.
func parseMessage(body string) (string, map[string]string) {
	attrs := make(map[string]string)
	i := strings.IndexByte(body, ' ')
	if i < 0 {
		return body, attrs
	}
	msg := body[:i]
	rest := body[i+1:]

	for len(rest) > 0 {
		rest = strings.TrimLeft(rest, " ")
		eq := strings.IndexByte(rest, '=')
		if eq < 0 || eq+1 >= len(rest) || rest[eq+1] != '\'' {
			break
		}
		key := rest[:eq]
		value, consumed, ok := scanQuoted(rest[eq+1:])
		if !ok {
			break
		}
		attrs[key] = value
		rest = rest[eq+1+consumed:]
	}
	return msg, attrs
}

// scanQuoted reads a 'quoted' value with |-escapes, returning the decoded
// value and the number of input bytes consumed including both quotes.
func scanQuoted(s string) (string, int, bool) {
	if len(s) == 0 || s[0] != '\'' {
		return "", 0, false
	}
	var sb strings.Builder
	i := 1
	for i < len(s) {
		switch s[i] {
		case '\'':
			return sb.String(), i + 1, true
		case '|':
			if i+1 >= len(s) {
				return sb.String(), i + 1, true // truncated escape at stream end
			}
			sb.WriteByte(unescape(s[i+1]))
			i += 2
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	// Unterminated value (truncated stream): best effort.
	return sb.String(), i, true
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	default:
		// |' |[ |] || and anything unknown decode to the literal char.
		return c
	}
}
