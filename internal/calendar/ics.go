package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pfrederiksen/gigcal/internal/event"
)

// DefaultProductID identifies gigcal as the producer of the calendar
const DefaultProductID = "-//pfrederiksen//gigcal//EN"

// floatingLayout is an iCalendar DATE-TIME without zone designator
const floatingLayout = "20060102T150405"

// Options configures a Builder
type Options struct {
	// Name is written as X-WR-CALNAME when non-empty.
	Name string
	// ProductID overrides DefaultProductID.
	ProductID string
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

// Builder accumulates events into a calendar
type Builder struct {
	cal   *ics.Calendar
	now   func() time.Time
	uids  map[string]int
	count int
}

// NewBuilder creates an empty calendar
func NewBuilder(opts Options) *Builder {
	cal := ics.NewCalendar()
	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Builder{
		cal:  cal,
		now:  now,
		uids: make(map[string]int),
	}
}

// Add appends one VEVENT for evt
func (b *Builder) Add(evt *event.Event) {
	duration := evt.Duration
	if duration <= 0 {
		duration = event.DefaultDuration
	}

	ve := b.cal.AddEvent(b.uid(evt))
	ve.SetDtStampTime(b.now().UTC())
	ve.SetSummary(evt.Title)
	ve.SetProperty(ics.ComponentPropertyDtStart, FormatFloating(evt.Start))
	ve.SetProperty(ics.ComponentPropertyDuration, FormatDuration(duration))
	ve.SetLocation(evt.Location)
	if evt.URL != "" {
		ve.SetURL(evt.URL)
	}
	b.count++
}

// Len returns the number of events added
func (b *Builder) Len() int {
	return b.count
}

// Serialize renders the calendar in iCalendar text format with CRLF line
// endings on every platform
func (b *Builder) Serialize() string {
	return b.cal.Serialize(ics.WithNewLineWindows)
}

// uid derives a stable UID from the event link and start time. Repeats get a
// numeric suffix so two listings of the same show stay separate entries.
func (b *Builder) uid(evt *event.Event) string {
	key := evt.URL + "#" + FormatFloating(evt.Start)
	base := uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()

	b.uids[base]++
	if n := b.uids[base]; n > 1 {
		return fmt.Sprintf("%s-%d@gigcal", base, n)
	}
	return base + "@gigcal"
}

// FormatFloating formats t as a floating iCalendar DATE-TIME
func FormatFloating(t time.Time) string {
	return t.Format(floatingLayout)
}

// FormatDuration formats d as an iCalendar DURATION, e.g. PT2H or PT1H30M.
// Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "PT0S"
	}

	var b strings.Builder
	b.WriteString("PT")
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 || (h == 0 && m == 0) {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
