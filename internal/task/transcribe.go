package task

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// SampleTranscriptions is the fixed pool simulated captures draw from.
var SampleTranscriptions = []string{
	"Pick up groceries on the way home - milk, eggs, and bread",
	"Call mom to wish her happy birthday tomorrow at 2pm",
	"Remember to send the quarterly report to Sarah by Friday",
	"Buy birthday present for Jake's party next Saturday",
	"Schedule dentist appointment for next week",
	"Don't forget to water the plants when I get home",
	"Meeting with the design team at 10am tomorrow",
	"Order new running shoes - need them for the marathon",
	"Take the car for oil change on Thursday morning",
	"Remind me to pay the electricity bill by the 15th",
}

const (
	maxSummaryRunes = 60
	summaryCutRunes = 57

	// Hour of day a time-bearing capture is reminded at, on the following day.
	transcribedReminderHour = 14

	buySearchURL = "https://www.amazon.com/s?k="
)

var clockPattern = regexp.MustCompile(`\d{1,2}(:\d{2})?`)

// FromTranscription derives a new, incomplete task from transcribed text.
// The ID is left empty; the store assigns it.
func FromTranscription(text string, now time.Time) Task {
	lower := strings.ToLower(text)

	reminder := Anytime()
	if mentionsTime(lower, text) {
		reminder = At(time.Date(now.Year(), now.Month(), now.Day()+1, transcribedReminderHour, 0, 0, 0, now.Location()))
	}

	isBuy := strings.Contains(lower, "buy") || strings.Contains(lower, "order")

	t := Task{
		Summary:      Summarize(text),
		FullText:     text,
		Kind:         KindAction,
		Reminder:     reminder,
		HasAudio:     true,
		HasChecklist: strings.Contains(text, " - ") || strings.Contains(text, ","),
		IsBuyIntent:  isBuy,
		CreatedAt:    now,
	}

	if strings.Contains(text, ",") {
		t.ChecklistItems = checklistItems(text)
	}

	if isBuy {
		t.BuyLink = buyLink(text)
	}

	return t
}

func mentionsTime(lower, text string) bool {
	for _, word := range []string{"tomorrow", "am", "pm"} {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return clockPattern.MatchString(text)
}

// Summarize shortens text to at most 60 runes, marking the cut with "...".
func Summarize(text string) string {
	if utf8.RuneCountInString(text) <= maxSummaryRunes {
		return text
	}

	runes := []rune(text)

	return string(runes[:summaryCutRunes]) + "..."
}

// checklistItems splits the part after the last " - " on commas.
func checklistItems(text string) []string {
	parts := strings.Split(text, " - ")
	tail := parts[len(parts)-1]

	items := strings.Split(tail, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}

	return items
}

func buyLink(text string) string {
	query := text

	parts := strings.Split(text, "buy ")
	if len(parts) > 1 && parts[1] != "" {
		query = parts[1]
	}

	return buySearchURL + escapeComponent(query)
}

// componentUnescaper restores the marks QueryEscape encodes but URI
// components leave as is.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
