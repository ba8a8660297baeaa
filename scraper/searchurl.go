package scraper

import (
	"fmt"
	"net/url"
	"time"
)

const (
	searchBase   = "https://www.expedia.co.id/Hotel-Search"
	checkInDays  = 14
	checkOutDays = 15
	searchAdults = 2
	searchLocale = "id_ID"
)

// BuildSearchURL builds the hotel search URL for a location, with a fixed
// two-weeks-ahead one-night window.
func BuildSearchURL(location string) string {
	now := time.Now()
	checkIn := now.AddDate(0, 0, checkInDays).Format("2006-01-02")
	checkOut := now.AddDate(0, 0, checkOutDays).Format("2006-01-02")

	return fmt.Sprintf("%s?destination=%s&startDate=%s&endDate=%s&adults=%d&language=%s",
		searchBase, url.QueryEscape(location), checkIn, checkOut, searchAdults, searchLocale)
}
