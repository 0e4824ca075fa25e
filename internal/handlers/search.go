package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// SearchBus is one entry of the public search catalog: a bus snapshot
// extended with schedule, fare and rating fields. The catalog is a static
// fixture; live inventory lives in the buses module.
type SearchBus struct {
	ID             string                  `json:"id"`
	BusNumber      string                  `json:"busNumber"`
	Type           string                  `json:"type"`
	Capacity       int                     `json:"capacity"`
	Manufacturer   string                  `json:"manufacturer"`
	Model          string                  `json:"model"`
	Amenities      []string                `json:"amenities"`
	SeatLayout     []models.Seat           `json:"seatLayout"`
	Status         string                  `json:"status"`
	Insurance      models.InsuranceDetails `json:"insuranceDetails"`
	DepartureTime  string                  `json:"departureTime"`
	ArrivalTime    string                  `json:"arrivalTime"`
	Price          float64                 `json:"price"`
	Rating         float64                 `json:"rating"`
	AvailableSeats int                     `json:"availableSeats"`
}

func fixtureLayout(capacity int, busType string) []models.Seat {
	bus := &models.Bus{Type: busType, Capacity: capacity}
	return bus.GenerateSeatLayout()
}

var searchCatalog = []SearchBus{
	{
		ID: "SRCH001", BusNumber: "MH12AB1234", Type: models.BusTypeAC, Capacity: 40,
		Manufacturer: "Volvo", Model: "9400",
		Amenities:  []string{"WiFi", "Water", "Charging Point", "Movie"},
		SeatLayout: fixtureLayout(40, models.BusTypeAC), Status: models.BusStatusActive,
		Insurance:     models.InsuranceDetails{Company: "ICICI Lombard", PolicyNumber: "IC123456789"},
		DepartureTime: "06:00", ArrivalTime: "12:00",
		Price: 800, Rating: 4.5, AvailableSeats: 25,
	},
	{
		ID: "SRCH002", BusNumber: "DL01CD5678", Type: models.BusTypeNonAC, Capacity: 32,
		Manufacturer: "Tata", Model: "Marcopolo",
		Amenities:  []string{"Water", "Charging Point"},
		SeatLayout: fixtureLayout(32, models.BusTypeNonAC), Status: models.BusStatusActive,
		Insurance:     models.InsuranceDetails{Company: "HDFC ERGO", PolicyNumber: "HD987654321"},
		DepartureTime: "08:30", ArrivalTime: "14:30",
		Price: 500, Rating: 4.2, AvailableSeats: 18,
	},
	{
		ID: "SRCH003", BusNumber: "KA05EF9012", Type: models.BusTypeSleeper, Capacity: 24,
		Manufacturer: "Ashok Leyland", Model: "Space",
		Amenities:  []string{"WiFi", "Water", "Blanket", "Movie", "Charging Point"},
		SeatLayout: fixtureLayout(24, models.BusTypeSleeper), Status: models.BusStatusActive,
		Insurance:     models.InsuranceDetails{Company: "Bajaj Allianz", PolicyNumber: "BA456789123"},
		DepartureTime: "21:00", ArrivalTime: "05:00",
		Price: 1200, Rating: 4.8, AvailableSeats: 12,
	},
	{
		ID: "SRCH004", BusNumber: "TN10GH3456", Type: models.BusTypeDeluxe, Capacity: 45,
		Manufacturer: "Scania", Model: "Touring",
		Amenities:  []string{"WiFi", "Water", "Snacks", "Movie", "Charging Point", "Toilet"},
		SeatLayout: fixtureLayout(45, models.BusTypeDeluxe), Status: models.BusStatusActive,
		Insurance:     models.InsuranceDetails{Company: "Reliance General", PolicyNumber: "RG789123456"},
		DepartureTime: "19:30", ArrivalTime: "04:30",
		Price: 1500, Rating: 4.9, AvailableSeats: 30,
	},
	{
		ID: "SRCH005", BusNumber: "WB07IJ7890", Type: models.BusTypePremium, Capacity: 35,
		Manufacturer: "Mercedes-Benz", Model: "Tourismo",
		Amenities:  []string{"WiFi", "Water", "Gourmet Meal", "Movie", "Charging Point", "Toilet", "Personal TV"},
		SeatLayout: fixtureLayout(35, models.BusTypePremium), Status: models.BusStatusActive,
		Insurance:     models.InsuranceDetails{Company: "New India Assurance", PolicyNumber: "NI321654987"},
		DepartureTime: "15:00", ArrivalTime: "22:00",
		Price: 2000, Rating: 4.7, AvailableSeats: 8,
	},
}

// SearchHandler serves the public fixture-backed search catalog
type SearchHandler struct{}

// NewSearchHandler creates a new search handler
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// SearchBuses handles GET /api/search/buses?from=&to=&date=. The parameters
// are required and echoed back as search metadata; the fixture catalog is
// not route-bound.
func (h *SearchHandler) SearchBuses(c *fiber.Ctx) error {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	date := c.Query("date")

	if from == "" || to == "" || date == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Missing required search parameters", "VALIDATION_ERROR",
			"from, to, and date are required for bus search")
	}
	searchDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid date format", "INVALID_DATE",
			"Please provide a valid date in YYYY-MM-DD format")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(searchCatalog)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit

	return utils.SendSuccess(c, fiber.Map{
		"buses": searchCatalog[start:end],
		"searchMetadata": fiber.Map{
			"from":           from,
			"to":             to,
			"date":           searchDate.Format("2006-01-02"),
			"womenOnly":      c.QueryBool("womenOnly"),
			"totalResults":   total,
			"currentPage":    page,
			"totalPages":     totalPages,
			"resultsPerPage": limit,
		},
	}, "Buses found successfully")
}

// GetBusDetails handles GET /api/search/buses/:id
func (h *SearchHandler) GetBusDetails(c *fiber.Ctx) error {
	id := c.Params("id")

	for i := range searchCatalog {
		if searchCatalog[i].ID == id {
			return utils.SendSuccess(c, searchCatalog[i], "Bus details retrieved successfully")
		}
	}
	return utils.SendError(c, fiber.StatusNotFound,
		"Bus not found", "BUS_NOT_FOUND", "No bus found with the provided ID")
}

// FilterBuses handles GET /api/search/filter with type, price, rating and
// amenity constraints. Amenity matching requires every listed amenity.
func (h *SearchHandler) FilterBuses(c *fiber.Ctx) error {
	busType := c.Query("busType")
	minPrice := queryFloat(c, "minPrice")
	maxPrice := queryFloat(c, "maxPrice")
	minRating := queryFloat(c, "minRating")

	var amenities []string
	if raw := c.Query("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				amenities = append(amenities, a)
			}
		}
	}

	results := make([]SearchBus, 0, len(searchCatalog))
	for _, bus := range searchCatalog {
		if busType != "" && bus.Type != busType {
			continue
		}
		if minPrice > 0 && bus.Price < minPrice {
			continue
		}
		if maxPrice > 0 && bus.Price > maxPrice {
			continue
		}
		if minRating > 0 && bus.Rating < minRating {
			continue
		}
		if !hasAllAmenities(bus.Amenities, amenities) {
			continue
		}
		results = append(results, bus)
	}

	return utils.SendSuccess(c, fiber.Map{
		"buses":        results,
		"totalResults": len(results),
		"appliedFilters": fiber.Map{
			"busType":   busType,
			"minPrice":  minPrice,
			"maxPrice":  maxPrice,
			"minRating": minRating,
			"amenities": amenities,
		},
	}, "Filtered buses retrieved successfully")
}

func queryFloat(c *fiber.Ctx, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func hasAllAmenities(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
