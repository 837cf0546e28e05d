package domain

import (
	"fmt"
	"net/url"
)

// PlaceResult is a single veterinary clinic returned by a nearby search.
type PlaceResult struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	PlaceID   string  `json:"placeId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapsURL links to the place on Google Maps.
func (p PlaceResult) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s,%s&query_place_id=%s",
		formatCoordinate(p.Latitude), formatCoordinate(p.Longitude), url.QueryEscape(p.PlaceID))
}
