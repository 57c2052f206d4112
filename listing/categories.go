package listing

import (
	"slices"
	"strings"
)

// Column prefixes of the one-hot encoded categorical groups.
const (
	RoomTypePrefix           = "room_type_"
	PropertyTypePrefix       = "property_type_"
	NeighbourhoodPrefix      = "neighbourhood_cleansed_"
	NeighbourhoodGroupPrefix = "neighbourhood_group_cleansed_"
	ResponseTimePrefix       = "host_response_time_"
	TextQualityPrefix        = "text_quality_category_"
	TextAppealPrefix         = "text_appeal_category_"
)

var roomTypes = []string{"Entire home/apt", "Private room", "Shared room", "Hotel room"}

var propertyTypes = []string{
	"Entire home", "Entire condo", "Private room", "Entire rental unit",
	"Entire serviced apartment", "Entire townhouse", "Private room in home",
	"Private room in townhouse", "Private room in condo",
	"Private room in rental unit", "Entire cottage",
	"Private room in bed and breakfast", "Room in hotel",
}

var neighbourhoods = []string{
	"City Centre", "Trafford District", "Bury District", "Bolton District",
	"Salford District", "Stockport District", "Tameside District",
	"Rochdale District", "Oldham District", "Wigan District",
	"Harpurhey", "Longsight", "Hulme", "Old Moat", "Fallowfield",
	"Whalley Range", "Levenshulme", "Didsbury West", "Crumpsall",
	"Moss Side", "Bradford", "Miles Platting and Newton Heath",
	"Rusholme", "Withington", "Gorton South", "Chorlton Park",
	"Chorlton", "Cheetham", "Ardwick", "Gorton North",
	"Northenden", "Woodhouse Park", "Didsbury East",
}

var responseTimes = []string{"within an hour", "within a few hours", "within a day", "a few days or more"}

// RoomTypes returns the room types the encoder knows.
func RoomTypes() []string { return slices.Clone(roomTypes) }

// PropertyTypes returns the property types the encoder knows.
func PropertyTypes() []string { return slices.Clone(propertyTypes) }

// Neighbourhoods returns the neighbourhoods the encoder knows.
func Neighbourhoods() []string { return slices.Clone(neighbourhoods) }

// ResponseTimes returns the host response time buckets the encoder knows.
func ResponseTimes() []string { return slices.Clone(responseTimes) }

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DefaultCoordinates is used when neither the input nor the neighbourhood
// table provides a location.
var DefaultCoordinates = Coordinates{Latitude: 53.4808, Longitude: -2.2426}

var neighbourhoodCoordinates = map[string]Coordinates{
	"City Centre":        {53.4808, -2.2426},
	"Bolton District":    {53.5768, -2.4282},
	"Bury District":      {53.5933, -2.2958},
	"Salford District":   {53.4875, -2.2901},
	"Stockport District": {53.4106, -2.1575},
	"Trafford District":  {53.4233, -2.3533},
	"Rochdale District":  {53.6097, -2.1561},
	"Oldham District":    {53.5409, -2.1114},
	"Tameside District":  {53.4804, -2.0809},
	"Wigan District":     {53.5450, -2.6318},
}

// NeighbourhoodCoordinates returns the centre point of a known neighbourhood.
func NeighbourhoodCoordinates(name string) (Coordinates, bool) {
	c, ok := neighbourhoodCoordinates[name]
	return c, ok
}

// encodeOneHot clears every column of the group already in rec, then writes
// one column per known category: 1 for the chosen value, 0 otherwise. A value
// outside categories leaves the whole group at 0.
func encodeOneHot(rec Record, prefix string, categories []string, chosen string) {
	for k := range rec {
		if strings.HasPrefix(k, prefix) {
			rec[k] = 0
		}
	}
	for _, c := range categories {
		rec[prefix+c] = boolToFloat(c == chosen)
	}
}
