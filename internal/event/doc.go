// Package event provides the record types that flow through the gigcal pipeline.
//
// A Record is the raw text scraped for one listing entry: title, date text, venue
// and detail link. An Event is a Record whose date text has been normalized into a
// start time. Records that fail normalization never become Events.
//
// Start times are floating: they carry no time zone and are written to the calendar
// without one, so calendar applications show them in the viewer's local zone.
package event
