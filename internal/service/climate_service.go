package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/pkg/utils"
)

const (
	coldBelowCelsius     = 15.0
	humidAbovePercent    = 70
	minLocationLength    = 3
	healthProbeTimeout   = 5 * time.Second
	healthProbeLatitude  = 51.5074
	healthProbeLongitude = -0.1278
)

var (
	coldPatterns  = []string{"alaska", "canada", "russia", "iceland", "norway", "sweden", "finland"}
	humidPatterns = []string{"singapore", "miami", "mumbai", "bangkok", "manila", "jakarta", "kuala lumpur"}
)

// ClimateResolver turns a location into a climate category using the
// geocoding and weather collaborators, caching results per location.
type ClimateResolver struct {
	geocoder Geocoder
	weather  WeatherProvider
	cache    domain.ClimateCache
}

// NewClimateResolver creates a new climate resolver
func NewClimateResolver(geocoder Geocoder, weather WeatherProvider, cache domain.ClimateCache) *ClimateResolver {
	return &ClimateResolver{
		geocoder: geocoder,
		weather:  weather,
		cache:    cache,
	}
}

// Resolve classifies the climate for a location string or a coordinate pair.
// Failures are classified: ErrInvalidInput/ErrInvalidCity for bad input,
// ErrGeocodingUnavailable/ErrWeatherUnavailable for collaborator outages.
func (r *ClimateResolver) Resolve(ctx context.Context, q domain.ClimateQuery) (domain.ClimateResult, error) {
	key, err := climateCacheKey(q)
	if err != nil {
		return domain.ClimateResult{}, err
	}

	if cached, ok, err := r.cache.Get(ctx, key); err != nil {
		log.Printf("[CLIMATE] cache read failed for %q: %v", key, err)
	} else if ok {
		return cached, nil
	}

	var lat, lon float64
	var locationName string

	if !usesCoordinates(q) {
		loc := strings.TrimSpace(q.LocationString)
		hits, err := r.geocoder.Geocode(ctx, loc)
		if err != nil {
			return domain.ClimateResult{}, domain.NewError(domain.ErrGeocodingUnavailable, "", err)
		}
		if len(hits) == 0 {
			return domain.ClimateResult{}, domain.NewError(domain.ErrInvalidCity,
				fmt.Sprintf("location %q not recognized", loc), nil)
		}
		lat, lon, locationName = hits[0].Latitude, hits[0].Longitude, hits[0].Name
	} else {
		lat, lon = *q.Latitude, *q.Longitude
	}

	w, err := r.weather.CurrentWeather(ctx, lat, lon)
	if err != nil {
		return domain.ClimateResult{}, domain.NewError(domain.ErrWeatherUnavailable, "", err)
	}

	if locationName == "" {
		locationName = fmt.Sprintf("%s, %s", formatCoord(lat), formatCoord(lon))
	}

	result := domain.ClimateResult{
		Climate: ClassifyClimate(w.Temperature, w.Humidity),
		Source:  domain.SourceWeatherAPI,
		Success: true,
		WeatherDetails: &domain.WeatherDetails{
			Temperature: utils.RoundTo(w.Temperature, 1),
			Humidity:    w.Humidity,
			Description: w.Description,
		},
		LocationName: locationName,
	}

	if err := r.cache.Set(ctx, key, result); err != nil {
		log.Printf("[CLIMATE] cache write failed for %q: %v", key, err)
	}

	log.Printf("[CLIMATE] %s detected for %s", result.Climate, result.LocationName)
	return result, nil
}

// CheckHealth issues one cheap weather lookup and reports whether it succeeded
func (r *ClimateResolver) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	if _, err := r.weather.CurrentWeather(ctx, healthProbeLatitude, healthProbeLongitude); err != nil {
		log.Printf("[CLIMATE] health probe failed: %v", err)
		return false
	}
	return true
}

// ClassifyClimate maps conditions to a category. Temperature is checked first.
func ClassifyClimate(temperature float64, humidity int) string {
	if temperature < coldBelowCelsius {
		return domain.ClimateCold
	}
	if humidity > humidAbovePercent {
		return domain.ClimateHumid
	}
	return domain.ClimateDry
}

// ClassifyByPattern guesses the climate from well-known place names.
// It never touches the network and never fails.
func ClassifyByPattern(location string) domain.ClimateResult {
	loc := strings.ToLower(location)
	climate := domain.ClimateDry
	switch {
	case containsAny(loc, coldPatterns):
		climate = domain.ClimateCold
	case containsAny(loc, humidPatterns):
		climate = domain.ClimateHumid
	}
	return domain.ClimateResult{
		Climate: climate,
		Source:  domain.SourceLocationPattern,
		Success: false,
	}
}

// QueryFromLocation turns a wizard location into a query. A "lat,lon"
// string becomes a coordinate query; anything else is geocoded by name.
func QueryFromLocation(location string) domain.ClimateQuery {
	parts := strings.Split(location, ",")
	if len(parts) == 2 {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat == nil && errLon == nil {
			return domain.ClimateQuery{Latitude: &lat, Longitude: &lon}
		}
	}
	return domain.ClimateQuery{LocationString: location}
}

func usesCoordinates(q domain.ClimateQuery) bool {
	return q.Latitude != nil && q.Longitude != nil && strings.TrimSpace(q.LocationString) == ""
}

func climateCacheKey(q domain.ClimateQuery) (string, error) {
	if usesCoordinates(q) {
		lat, lon := *q.Latitude, *q.Longitude
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return "", domain.NewError(domain.ErrInvalidInput,
				fmt.Sprintf("coordinates (%v, %v) out of range", lat, lon), nil)
		}
		return formatCoord(lat) + "," + formatCoord(lon), nil
	}

	loc := strings.TrimSpace(q.LocationString)
	if len(loc) < minLocationLength {
		return "", domain.NewError(domain.ErrInvalidInput,
			fmt.Sprintf("location must be at least %d characters", minLocationLength), nil)
	}
	return loc, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
