package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	return formatCoordinate(l.Latitude) + "," + formatCoordinate(l.Longitude)
}

// UnmarshalText parses "lat,lng" so locations can be set from the environment.
func (l *Location) UnmarshalText(text []byte) error {
	lat, lng, ok := strings.Cut(string(text), ",")
	if !ok {
		return fmt.Errorf("location %q: expected \"lat,lng\"", text)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return fmt.Errorf("parsing latitude: %w", err)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return fmt.Errorf("parsing longitude: %w", err)
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return fmt.Errorf("location %q out of range", text)
	}

	l.Latitude, l.Longitude = latitude, longitude
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
