package domain

import "time"

// MLRequest is the body posted to the ML service
type MLRequest struct {
	UserPreferences MLUserPreferences `json:"user_preferences"`
	RequestSettings MLRequestSettings `json:"request_settings"`
}

// MLUserPreferences carries the normalized wizard answers
type MLUserPreferences struct {
	BudgetMin       int    `json:"budget_min"`
	BudgetMax       int    `json:"budget_max"`
	StylePreference string `json:"style_preference"`
	RoomType        string `json:"room_type"`
	IndoorOutdoor   string `json:"indoor_outdoor"`
	Location        string `json:"location"`
	ClimateType     string `json:"climate_type"`
}

// MLRequestSettings are fixed per deployment
type MLRequestSettings struct {
	MaxResults          int     `json:"max_results"`
	IncludeExplanation  bool    `json:"include_explanation"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// RawMLResponse is the decoded body of a successful ML call
type RawMLResponse struct {
	Recommendations  []RawRecommendation `json:"recommendations"`
	ModelType        string              `json:"model_type,omitempty"`
	ProcessingTimeMs float64             `json:"processing_time_ms,omitempty"`
	ModelVersion     string              `json:"model_version,omitempty"`
}

// MLHealth mirrors GET /api/health on the ML service
type MLHealth struct {
	Healthy     bool   `json:"healthy"`
	ModelLoaded bool   `json:"model_loaded"`
	Timestamp   string `json:"timestamp,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CostItem is one bucket of a cost breakdown
type CostItem struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

// ModelData records where a recommendation came from
type ModelData struct {
	OriginalResponse RawRecommendation `json:"originalResponse"`
	IsFallback       bool              `json:"isFallback"`
	ProcessingTimeMs float64           `json:"processingTime"`
	ModelVersion     string            `json:"modelVersion,omitempty"`
}

// Recommendation is the canonical UI model
type Recommendation struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Image           string              `json:"image"`
	MatchPercentage int                 `json:"matchPercentage"`
	MatchQuality    string              `json:"match_quality,omitempty"`
	Price           float64             `json:"price"`
	Timeline        string              `json:"timeline"`
	ROI             string              `json:"roi"`
	Style           string              `json:"style"`
	RoomType        string              `json:"roomType"`
	IndoorOutdoor   string              `json:"indoorOutdoor"`
	ClimateType     string              `json:"climateType"`
	Attributes      map[string]CostItem `json:"attributes"`
	Explanation     string              `json:"explanation"`
	Features        []string            `json:"features"`
	Materials       []string            `json:"materials"`
	ModelConfidence float64             `json:"modelConfidence"`
	ModelData       ModelData           `json:"modelData"`
}

// ModelInfo summarizes the model run behind a result set
type ModelInfo struct {
	ModelType        string  `json:"modelType"`
	ProcessingTimeMs float64 `json:"processingTime"`
	TotalResults     int     `json:"totalResults"`
	IsRealtime       bool    `json:"isRealtime"`
	IsFallback       bool    `json:"isFallback"`
}

// RecommendationResult is what the UI receives for one fetch
type RecommendationResult struct {
	RequestID       string           `json:"request_id"`
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	ModelInfo       ModelInfo        `json:"model_info"`
	ErrorKind       ErrorKind        `json:"error_kind,omitempty"`
	Notice          string           `json:"notice,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// RecommendationLog is one persisted fetch outcome
type RecommendationLog struct {
	RequestID        string            `json:"request_id"`
	Preferences      WizardPreferences `json:"preferences"`
	ResultCount      int               `json:"result_count"`
	IsFallback       bool              `json:"is_fallback"`
	ErrorKind        ErrorKind         `json:"error_kind,omitempty"`
	ModelType        string            `json:"model_type"`
	ProcessingTimeMs float64           `json:"processing_time_ms"`
	Timestamp        time.Time         `json:"timestamp"`
}
