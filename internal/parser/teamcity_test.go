package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pta/internal/domain"
)

func TestTeamCityParser_PassFailIgnoreOutcomes(t *testing.T) {
	p := NewTeamCityParser()

	input := "##teamcity[testSuiteStarted name='Tests\\UserTest']\n" +
		"##teamcity[testStarted name='testCreate']\n" +
		"##teamcity[testFinished name='testCreate' duration='12']\n" +
		"##teamcity[testStarted name='testDelete']\n" +
		"##teamcity[testFailed name='testDelete' message='failed asserting foo' details='/app/tests/UserTest.php:42']\n" +
		"##teamcity[testFinished name='testDelete' duration='3']\n" +
		"##teamcity[testStarted name='testSkip']\n" +
		"##teamcity[testIgnored name='testSkip' message='not ready']\n" +
		"##teamcity[testFinished name='testSkip' duration='0']\n" +
		"##teamcity[testSuiteFinished name='Tests\\UserTest']\n"

	events := p.Feed(input)
	events = append(events, p.Flush()...)

	var results []Event
	for _, ev := range events {
		if ev.Type == CaseResult {
			results = append(results, ev)
		}
	}
	require.Len(t, results, 3)

	assert.Equal(t, domain.OutcomePassed, results[0].Outcome)
	assert.Equal(t, 12*time.Millisecond, results[0].Duration)

	assert.Equal(t, domain.OutcomeFailed, results[1].Outcome)
	assert.Equal(t, "failed asserting foo", results[1].Message)
	assert.Equal(t, "/app/tests/UserTest.php:42", results[1].Detail)

	assert.Equal(t, domain.OutcomeSkipped, results[2].Outcome)
	assert.Equal(t, "not ready", results[2].Message)
}

func TestTeamCityParser_ErrorAttributeMapsToErrored(t *testing.T) {
	p := NewTeamCityParser()

	events := p.Feed("##teamcity[testStarted name='testBoom']\n" +
		"##teamcity[testFailed name='testBoom' message='Exception: boom' error='true']\n" +
		"##teamcity[testFinished name='testBoom' duration='1']\n")

	require.Len(t, events, 2)
	assert.Equal(t, domain.OutcomeErrored, events[1].Outcome)
}

func TestTeamCityParser_EscapedAttributeValues(t *testing.T) {
	p := NewTeamCityParser()

	events := p.Feed("##teamcity[testStarted name='testQuotes']\n" +
		"##teamcity[testFailed name='testQuotes' message='expected |'a|'|nbut got |'b|'' details='pipe: |||, bracket: |]']\n" +
		"##teamcity[testFinished name='testQuotes' duration='2']\n")

	require.Len(t, events, 2)
	assert.Equal(t, "expected 'a'\nbut got 'b'", events[1].Message)
	assert.Equal(t, "pipe: |, bracket: ]", events[1].Detail)
}

func TestTeamCityParser_ChunksSplitMidMessage(t *testing.T) {
	p := NewTeamCityParser()

	var events []Event
	chunks := []string{
		"##teamcity[testStar", "ted name='testSplit']\n##teamcity[testFini",
		"shed name='testSplit' dura", "tion='7']\n",
	}
	for _, c := range chunks {
		events = append(events, p.Feed(c)...)
	}
	events = append(events, p.Flush()...)

	require.Len(t, events, 2)
	assert.Equal(t, CaseStarted, events[0].Type)
	assert.Equal(t, CaseResult, events[1].Type)
	assert.Equal(t, domain.OutcomePassed, events[1].Outcome)
}

func TestTeamCityParser_FlushResolvesUnfinishedCase(t *testing.T) {
	p := NewTeamCityParser()

	// Process died between testStarted and testFinished.
	events := p.Feed("##teamcity[testStarted name='testCrash']\n")
	events = append(events, p.Flush()...)

	require.Len(t, events, 2)
	assert.Equal(t, CaseResult, events[1].Type)
	assert.Equal(t, domain.OutcomeErrored, events[1].Outcome)
}

func TestTeamCityParser_IgnoresNonServiceLines(t *testing.T) {
	p := NewTeamCityParser()

	events := p.Feed("PHPUnit 10.5.0\n\n.F.S 4 / 4 (100%)\nTime: 00:00.123\n")
	events = append(events, p.Flush()...)
	assert.Empty(t, events)
}
