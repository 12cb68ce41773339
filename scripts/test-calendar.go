package main

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/gigcal/internal/calendar"
	"github.com/pfrederiksen/gigcal/internal/event"
	"github.com/pfrederiksen/gigcal/internal/storage"
)

func main() {
	// Sample records as the listing page prints them
	records := []event.Record{
		{
			Title:    "Mary Halvorson Amaryllis",
			DateText: "Oct 10, 2025, 7:00 PM",
			Venue:    "Revue Stage, 1601 Johnston St, Vancouver",
			URL:      "https://www.maryhalvorson.com/event-details/revue-stage",
		},
		{
			Title:    "Mary Halvorson Quintet",
			DateText: "Nov 1, 2025, 7:00 PM",
			Venue:    "Crocodile, Seattle",
			URL:      "https://www.maryhalvorson.com/event-details/crocodile",
		},
	}

	b := calendar.NewBuilder(calendar.Options{Name: "gigcal test calendar"})
	for _, rec := range records {
		evt, err := event.Normalize(rec, event.DefaultDuration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error normalizing %q: %v\n", rec.Title, err)
			os.Exit(1)
		}
		b.Add(evt)
	}
	icsContent := b.Serialize()

	filename := "test-gigcal.ics"
	if err := storage.WriteFile(filename, []byte(icsContent)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d events)\n\n", filename, b.Len())
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
