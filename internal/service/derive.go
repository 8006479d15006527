package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/pkg/utils"
)

const imageURLFormat = "https://images.unsplash.com/%s?w=800&h=600&fit=crop&q=80&auto=format"

// photoTable maps style -> compact room key -> Unsplash photo id
var photoTable = map[string]map[string]string{
	"modern": {
		"kitchen":    "photo-1556909114-f6e7ad7d3136",
		"bathroom":   "photo-1620626011761-996317b8d101",
		"livingroom": "photo-1586023492125-27b2c045efd7",
		"bedroom":    "photo-1566665797739-1674de7a421a",
		"diningroom": "photo-1578662996442-48f60103fc96",
		"patio":      "photo-1600607687939-ce8a6c25118c",
		"garden":     "photo-1585320806297-9794b3e4eeae",
	},
	"traditional": {
		"kitchen":    "photo-1556912172-45b7abe8b7e1",
		"bathroom":   "photo-1584622650111-993a426fbf0a",
		"livingroom": "photo-1555041469-a586c61ea9bc",
		"bedroom":    "photo-1560448204-e02f11c3d0e2",
		"diningroom": "photo-1617806118233-18e1de247200",
		"patio":      "photo-1502672260266-1c1ef2d93688",
		"garden":     "photo-1416879595882-3373a0480b5b",
	},
	"rustic": {
		"kitchen":    "photo-1585412727339-54e4bae3bbf9",
		"bathroom":   "photo-1584622650111-993a426fbf0a",
		"livingroom": "photo-1493663284031-b7e3afd4a9bb",
		"bedroom":    "photo-1578662996442-48f60103fc96",
		"diningroom": "photo-1615874694520-474822394e73",
		"patio":      "photo-1502672260266-1c1ef2d93688",
		"garden":     "photo-1416879595882-3373a0480b5b",
	},
}

const defaultPhotoID = "photo-1556909114-f6e7ad7d3136"

// ImageURL picks a static photo for a style and room, falling back to the
// modern row and then to the default kitchen photo.
func ImageURL(style, roomType string) string {
	styleKey := strings.ToLower(strings.TrimSpace(style))
	roomKey := compactRoomKey(roomType)

	photoID := defaultPhotoID
	if id, ok := photoTable[styleKey][roomKey]; ok {
		photoID = id
	} else if id, ok := photoTable["modern"][roomKey]; ok {
		photoID = id
	}
	return fmt.Sprintf(imageURLFormat, photoID)
}

func compactRoomKey(roomType string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(roomType)))
}

type costBucket struct {
	key    string
	label  string
	weight float64
}

var (
	outdoorCosts = []costBucket{
		{"furniture", "Outdoor Furniture", 0.40},
		{"hardscape", "Hardscape & Structure", 0.35},
		{"features", "Features & Accessories", 0.25},
	}
	kitchenCosts = []costBucket{
		{"cabinets", "Kitchen Cabinets", 0.45},
		{"countertops", "Countertops", 0.30},
		{"appliances", "Appliances & Fixtures", 0.25},
	}
	bathroomCosts = []costBucket{
		{"fixtures", "Bathroom Fixtures", 0.40},
		{"tiles", "Tiles & Flooring", 0.35},
		{"vanity", "Vanity & Storage", 0.25},
	}
	generalCosts = []costBucket{
		{"furniture", "Furniture & Fixtures", 0.50},
		{"flooring", "Flooring & Finishes", 0.30},
		{"decor", "Decor & Accessories", 0.20},
	}
)

func isOutdoor(indoorOutdoor string) bool {
	return strings.EqualFold(strings.TrimSpace(indoorOutdoor), domain.Outdoor)
}

func costTemplate(roomType, indoorOutdoor string) []costBucket {
	room := strings.ToLower(roomType)
	switch {
	case isOutdoor(indoorOutdoor):
		return outdoorCosts
	case strings.Contains(room, "kitchen"):
		return kitchenCosts
	case strings.Contains(room, "bathroom"):
		return bathroomCosts
	default:
		return generalCosts
	}
}

// CostBreakdown splits price into the weighted buckets for the room.
// Outdoor spaces use the outdoor template whatever the room name.
func CostBreakdown(price float64, roomType, indoorOutdoor string) map[string]domain.CostItem {
	tmpl := costTemplate(roomType, indoorOutdoor)
	weights := make([]float64, len(tmpl))
	for i, b := range tmpl {
		weights[i] = b.weight
	}

	parts := splitPrice(price, weights)
	out := make(map[string]domain.CostItem, len(tmpl))
	for i, b := range tmpl {
		out[b.key] = domain.CostItem{Item: b.label, Price: parts[i]}
	}
	return out
}

// reconcileBreakdown keeps a supplied breakdown when it already adds up to
// price, and otherwise rescales it proportionally onto price.
func reconcileBreakdown(price float64, items map[string]domain.CostItem) map[string]domain.CostItem {
	keys := make([]string, 0, len(items))
	var total float64
	for k, v := range items {
		keys = append(keys, k)
		total += v.Price
	}
	sort.Strings(keys)

	if math.Abs(total-price) <= float64(len(items)-1) {
		return items
	}

	weights := make([]float64, len(keys))
	for i, k := range keys {
		if total > 0 {
			weights[i] = items[k].Price / total
		} else {
			weights[i] = 1 / float64(len(keys))
		}
	}

	parts := splitPrice(price, weights)
	out := make(map[string]domain.CostItem, len(keys))
	for i, k := range keys {
		out[k] = domain.CostItem{Item: items[k].Item, Price: parts[i]}
	}
	return out
}

// splitPrice rounds every share but the last, which takes the remainder,
// so the parts always sum to price.
func splitPrice(price float64, weights []float64) []float64 {
	parts := make([]float64, len(weights))
	var used float64
	for i, w := range weights {
		if i == len(weights)-1 {
			parts[i] = price - used
			break
		}
		parts[i] = math.Round(price * w)
		used += parts[i]
	}
	return parts
}

var timelineBreakpoints = []struct {
	below float64
	label string
}{
	{50, "1-2 days"},
	{150, "3-5 days"},
	{300, "1-2 weeks"},
	{450, "2-3 weeks"},
	{7000, "3-4 weeks"},
	{15000, "4-6 weeks"},
}

// EstimateTimeline maps price onto an ascending set of duration buckets
func EstimateTimeline(price float64) string {
	for _, bp := range timelineBreakpoints {
		if price < bp.below {
			return bp.label
		}
	}
	return "6-8 weeks"
}

const (
	roiBase          = 10.0
	roiScale         = 30.0
	roiPriceDivisor  = 100.0
	roiMaxPriceBonus = 5.0
)

// EstimateROI returns round(base + confidence*scale + priceBonus) as a percentage.
// The bonus grows with price and is capped.
func EstimateROI(price, confidence float64) string {
	bonus := math.Min(math.Max(price, 0)/roiPriceDivisor, roiMaxPriceBonus)
	return fmt.Sprintf("%d%%", int(math.Round(roiBase+confidence*roiScale+bonus)))
}

// MatchQuality labels a confidence score
func MatchQuality(confidence float64) string {
	c := utils.Clamp(confidence, 0, 1)
	switch {
	case c >= 0.85:
		return "Perfect"
	case c >= 0.70:
		return "Excellent"
	case c >= 0.55:
		return "Good"
	case c >= 0.35:
		return "Fair"
	default:
		return "Basic"
	}
}

func validMatchQuality(q string) bool {
	switch q {
	case "Perfect", "Excellent", "Good", "Fair", "Basic":
		return true
	}
	return false
}

// FeaturesFor lists the headline features of a room
func FeaturesFor(roomType, indoorOutdoor string) []string {
	room := strings.ToLower(roomType)
	switch {
	case isOutdoor(indoorOutdoor):
		return []string{"Weather Resistant", "Low Maintenance", "Seasonal Flexibility", "Durable Materials"}
	case strings.Contains(room, "kitchen"):
		return []string{"Modern Appliances", "Ample Storage", "Task Lighting", "Island/Peninsula"}
	case strings.Contains(room, "bathroom"):
		return []string{"Water Efficient Fixtures", "Modern Vanity", "Good Ventilation", "Easy Maintenance"}
	default:
		return []string{"Comfortable Layout", "Natural Light", "Quality Materials", "Flexible Design"}
	}
}

// MaterialsFor lists materials suited to a climate
func MaterialsFor(climateType, indoorOutdoor string) []string {
	climate := strings.ToLower(strings.TrimSpace(climateType))
	if isOutdoor(indoorOutdoor) {
		if climate == "humid" {
			return []string{"Composite Decking", "Aluminum", "Weather-Resistant Fabrics", "Powder-Coated Steel"}
		}
		return []string{"Teak Wood", "Natural Stone", "Stainless Steel", "UV-Resistant Materials"}
	}
	switch climate {
	case "humid":
		return []string{"Quartz", "Ceramic Tiles", "Stainless Steel", "Treated Wood"}
	case "cold":
		return []string{"Hardwood", "Natural Stone", "Insulated Materials", "Quality Hardware"}
	default:
		return []string{"Granite", "Hardwood", "Glass", "Metal Accents"}
	}
}

func generateName(style, roomType, indoorOutdoor string) string {
	parts := []string{utils.Capitalize(style), utils.TitleWords(roomType)}
	if io := strings.TrimSpace(indoorOutdoor); io != "" && !strings.EqualFold(io, domain.Indoor) {
		parts = append(parts, utils.Capitalize(io))
	}
	parts = append(parts, "Renovation")
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func generateExplanation(style, roomType string, confidence float64) string {
	prefix := fmt.Sprintf("This %s %s renovation ", strings.ToLower(style), strings.ToLower(utils.TitleWords(roomType)))
	switch {
	case confidence > 0.9:
		return prefix + "is an excellent match for your preferences with high compatibility across all factors."
	case confidence > 0.8:
		return prefix + "provides strong compatibility with your style preferences and budget requirements."
	default:
		return prefix + "meets your basic requirements and offers good value for your budget."
	}
}
