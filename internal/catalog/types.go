// Package catalog holds the client-side cache of wardrobe items and the
// normalization layer that turns heterogeneous gateway responses into one
// canonical item shape.
//
// The gateway is the source of truth: the cache is replaced, never merged,
// from every successful mutation response. Absent name/weather are stored as
// empty values; the "Untitled" sentinel exists only at the presentation
// boundary (DisplayName / DisplayWeather).
package catalog

import (
	"strings"
	"time"
)

// Untitled is the sentinel the gateway uses for an absent name or weather.
// It is never stored in a ClothingItem; both directions are translated at
// the wire and presentation boundaries.
const Untitled = "Untitled"

// Weather is the enumerated weather/season tag for a clothing item.
type Weather string

const (
	WeatherSpring Weather = "Spring"
	WeatherSummer Weather = "Summer"
	WeatherFall   Weather = "Fall"
	WeatherWinter Weather = "Winter"

	// WeatherUnset is the absent value; rendered as "Untitled".
	WeatherUnset Weather = ""
)

// ParseWeather maps free-form input to a Weather value. Matching is
// case-insensitive; the "Untitled" sentinel and anything unrecognized map
// to WeatherUnset, mirroring the gateway's own season validation.
func ParseWeather(s string) Weather {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spring":
		return WeatherSpring
	case "summer":
		return WeatherSummer
	case "fall":
		return WeatherFall
	case "winter":
		return WeatherWinter
	default:
		return WeatherUnset
	}
}

// ClothingItem is a wardrobe entry as persisted by the gateway.
type ClothingItem struct {
	ID               string
	Name             string // "" when absent
	Weather          Weather
	ImageURL         string
	OriginalImageURL string
	FileName         string
	FileSize         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayName returns the name with the sentinel applied for rendering.
func (it ClothingItem) DisplayName() string {
	if strings.TrimSpace(it.Name) == "" {
		return Untitled
	}
	return it.Name
}

// DisplayWeather returns the weather with the sentinel applied for rendering.
func (it ClothingItem) DisplayWeather() string {
	if it.Weather == WeatherUnset {
		return Untitled
	}
	return string(it.Weather)
}
