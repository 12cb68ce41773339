package event

import (
	"strings"
	"time"
)

// DefaultDuration is the length given to every event. The listing pages do not
// publish end times.
const DefaultDuration = 2 * time.Hour

// Record is a raw event entry as scraped from a page
type Record struct {
	Title    string `json:"title"`
	DateText string `json:"date_text"`
	Venue    string `json:"venue,omitempty"`
	URL      string `json:"url"`
}

// Event is a Record with a parsed start time
type Event struct {
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Location string        `json:"location,omitempty"`
	URL      string        `json:"url"`
}

// End returns the start time plus the event duration
func (e *Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

// Normalize parses the record's date text and builds an Event from it.
// A zero or negative duration falls back to DefaultDuration.
func Normalize(rec Record, duration time.Duration) (*Event, error) {
	start, err := ParseDate(rec.DateText)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	return &Event{
		Title:    strings.TrimSpace(rec.Title),
		Start:    start,
		Duration: duration,
		Location: strings.TrimSpace(rec.Venue),
		URL:      rec.URL,
	}, nil
}
