package model

// Dimension is one of the filter axes a user can narrow events by.
type Dimension int

const (
	DimensionNone Dimension = iota
	DimensionOrganizer
	DimensionVenue
	DimensionCategory
)

// Dimensions lists the filterable dimensions in menu order.
var Dimensions = []Dimension{DimensionOrganizer, DimensionVenue, DimensionCategory}

func (d Dimension) String() string {
	switch d {
	case DimensionOrganizer:
		return "organizer"
	case DimensionVenue:
		return "venue"
	case DimensionCategory:
		return "category"
	default:
		return "none"
	}
}

// Column is the events table column the dimension filters on.
func (d Dimension) Column() string {
	switch d {
	case DimensionOrganizer:
		return "organizer"
	case DimensionVenue:
		return "location_name"
	case DimensionCategory:
		return "category"
	default:
		return ""
	}
}

// InteractionType is the analytics filter_type recorded when a value of this
// dimension is chosen.
func (d Dimension) InteractionType() string {
	switch d {
	case DimensionOrganizer:
		return "filter_organizer"
	case DimensionVenue:
		return "filter_location"
	case DimensionCategory:
		return "filter_category"
	default:
		return ""
	}
}
