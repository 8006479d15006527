package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Indoor/outdoor values accepted from the wizard and the customization panel
const (
	Indoor  = "Indoor"
	Outdoor = "Outdoor"
	AnyArea = "All"
)

// Supported design styles
const (
	StyleModern      = "Modern"
	StyleTraditional = "Traditional"
	StyleRustic      = "Rustic"
)

// Budget scale used by the wizard and the customization panel
const (
	BudgetScaleMin = 0
	BudgetScaleMax = 550
)

// IndoorRooms and OutdoorRooms list the room types valid for each space type
var (
	IndoorRooms  = []string{"kitchen", "bathroom", "bedroom", "living-room", "dining-room"}
	OutdoorRooms = []string{"patio", "garden"}
)

// WizardPreferences holds the answers collected by the multi-step wizard
type WizardPreferences struct {
	IndoorOutdoor string `json:"indoorOutdoor"`
	Budget        string `json:"budget"`
	Style         string `json:"style"`
	RoomType      string `json:"roomType"`
	Location      string `json:"location"`
	ClimateType   string `json:"climateType,omitempty"`
	ClimateSource string `json:"climateSource,omitempty"`
}

// CustomizationFilters overlays the wizard answers from the recommendations page
type CustomizationFilters struct {
	BudgetRange   *[2]int  `json:"budgetRange,omitempty"`
	Styles        []string `json:"styles,omitempty"`
	RoomFeatures  []string `json:"roomFeatures,omitempty"`
	IndoorOutdoor string   `json:"indoorOutdoor,omitempty"`
}

// Validate reports every missing or inconsistent wizard answer
func (p WizardPreferences) Validate() error {
	var errs []error
	if strings.TrimSpace(p.IndoorOutdoor) == "" {
		errs = append(errs, errors.New("indoor/outdoor preference required"))
	}
	if strings.TrimSpace(p.Budget) == "" {
		errs = append(errs, errors.New("budget is required"))
	}
	if strings.TrimSpace(p.Style) == "" {
		errs = append(errs, errors.New("style preference required"))
	}
	if strings.TrimSpace(p.RoomType) == "" {
		errs = append(errs, errors.New("room type required"))
	} else if p.IndoorOutdoor != "" && !RoomAllowed(p.IndoorOutdoor, p.RoomType) {
		errs = append(errs, fmt.Errorf("room type %q is not valid for %s", p.RoomType, p.IndoorOutdoor))
	}
	if strings.TrimSpace(p.Location) == "" {
		errs = append(errs, errors.New("location required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return NewError(ErrInvalidInput, "invalid wizard preferences", errors.Join(errs...))
}

// Validate checks the budget window of the filters
func (f CustomizationFilters) Validate() error {
	if f.BudgetRange == nil {
		return nil
	}
	lo, hi := f.BudgetRange[0], f.BudgetRange[1]
	if lo < BudgetScaleMin || hi > BudgetScaleMax || lo >= hi {
		return NewError(ErrInvalidInput, fmt.Sprintf("budget range [%d, %d] must satisfy %d <= min < max <= %d",
			lo, hi, BudgetScaleMin, BudgetScaleMax), nil)
	}
	return nil
}

// RoomAllowed reports whether roomType belongs to the set valid for indoorOutdoor
func RoomAllowed(indoorOutdoor, roomType string) bool {
	rooms := IndoorRooms
	if strings.EqualFold(indoorOutdoor, Outdoor) {
		rooms = OutdoorRooms
	}
	room := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(roomType)), "_", "-")
	for _, r := range rooms {
		if r == room {
			return true
		}
	}
	return false
}
