package model

import "time"

// Event is a single row of the events table. Every column is nullable in the
// scraped source data, so all fields are pointers.
type Event struct {
	Title           *string    `db:"title"`
	StartTime       *string    `db:"start_time"`
	Type            *string    `db:"type"`
	Price           *string    `db:"price"`
	Category        *string    `db:"category"`
	Difficulty      *string    `db:"difficulty"`
	LocationName    *string    `db:"location_name"`
	LocationAddress *string    `db:"location_address"`
	URL             *string    `db:"url"`
	Date            *time.Time `db:"date"`
	Organizer       *string    `db:"organizer"`
}

// EventFilter narrows ListEvents. Dimension may be DimensionNone, in which case
// only Date is applied.
type EventFilter struct {
	Date      time.Time
	Dimension Dimension
	Value     string
}

// Interaction is one row of the analytics log.
type Interaction struct {
	UserID   int64
	UserName string // empty when the user has no username
	Type     string
	Value    string
	At       time.Time
}

// Interaction types
const (
	InteractionCommand         = "command"
	InteractionFilterSelection = "filter_selection"
)
