package domain

import "time"

// Climate categories
const (
	ClimateCold  = "Cold"
	ClimateHumid = "Humid"
	ClimateDry   = "Dry"
)

// Climate sources recorded on the wizard answers
const (
	SourceWeatherAPI      = "weather_api"
	SourceLocationPattern = "location_pattern"
	SourceUserOverride    = "user_override"
)

// GeoLocation is a geocoding hit
type GeoLocation struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Name      string  `json:"name"`
}

// Weather represents current conditions at a coordinate
type Weather struct {
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// WeatherDetails is the weather summary attached to a climate result
type WeatherDetails struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
}

// ClimateQuery is either a free-text location or a coordinate pair
type ClimateQuery struct {
	LocationString string   `json:"location,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// ClimateResult is the outcome of a climate resolution
type ClimateResult struct {
	Climate        string          `json:"climate"`
	Source         string          `json:"source"`
	Success        bool            `json:"success"`
	WeatherDetails *WeatherDetails `json:"weatherDetails,omitempty"`
	LocationName   string          `json:"locationName,omitempty"`
}

// ClimateResponse wraps a climate result with an advisory notice
type ClimateResponse struct {
	Data    ClimateResult `json:"data"`
	Success bool          `json:"success"`
	Notice  string        `json:"notice,omitempty"`
}
