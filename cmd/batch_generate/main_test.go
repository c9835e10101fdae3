package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"wiki-quiz/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLs(t *testing.T) {
	input := `
# computing pioneers
https://en.wikipedia.org/wiki/Alan_Turing
   https://en.wikipedia.org/wiki/Ada_Lovelace

#https://en.wikipedia.org/wiki/Skipped
`
	urls, err := readURLs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://en.wikipedia.org/wiki/Alan_Turing",
		"https://en.wikipedia.org/wiki/Ada_Lovelace",
	}, urls)
}

func TestPrintReport(t *testing.T) {
	report := &service.BatchReport{
		Outcomes: []service.BatchOutcome{
			{URL: "https://en.wikipedia.org/wiki/Alan_Turing", Title: "Alan Turing", Questions: 10},
			{URL: "https://en.wikipedia.org/wiki/Ada_Lovelace", Skipped: true, Questions: 8},
			{URL: "https://en.wikipedia.org/wiki/Nope", Err: errors.New("Failed to scrape Wikipedia article")},
			{Err: errors.New("URL is required")},
			{},
		},
		Generated: 1,
		Skipped:   1,
		Failed:    2,
		Duration:  1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, `OK    https://en.wikipedia.org/wiki/Alan_Turing "Alan Turing" (10 questions)`)
	assert.Contains(t, out, "SKIP  https://en.wikipedia.org/wiki/Ada_Lovelace (8 questions stored)")
	assert.Contains(t, out, "FAIL  https://en.wikipedia.org/wiki/Nope: Failed to scrape Wikipedia article")
	assert.Contains(t, out, "FAIL  <blank>: URL is required")
	assert.Contains(t, out, "1 generated, 1 skipped, 2 failed in 1.5s")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}
