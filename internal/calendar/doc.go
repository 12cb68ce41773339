// Package calendar turns normalized events into an iCalendar document.
//
// Start times are written as floating local times (no TZID, no trailing Z) with a
// DURATION instead of a DTEND, so every client shows the event at the wall-clock
// time printed on the listing page.
package calendar
