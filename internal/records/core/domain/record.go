package domain

import "time"

// DefaultGroup is assigned to records whose group cell is empty.
const DefaultGroup = "Default"

// MetricRecord is one normalized spreadsheet row: the daily counters of a bot.
type MetricRecord struct {
	Date          time.Time // midnight UTC
	BotUsername   string
	BotNoteName   string
	Product       string // "" when the bot has no product
	Group         string
	Consultations int64
	Leads         int64
}

// RawRow maps a raw header to its cell. Cells are strings or numbers.
type RawRow map[string]any

// Snapshot is a complete pull of the source sheet.
type Snapshot struct {
	SheetKey  string
	ImportID  string
	Headers   []string
	Rows      []RawRow
	FetchedAt time.Time
}

// Selection is the user's filter state. Empty sets match everything.
type Selection struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Groups   []string   `json:"groups,omitempty"`
	Bots     []string   `json:"bots,omitempty"`
	Products []string   `json:"products,omitempty"`
}
