package fiber

// ImportSnapshotRequest is a full sheet pushed by a client
// @Description Sheet snapshot upload
type ImportSnapshotRequest struct {
	Headers []string         `json:"headers" example:"日期,机器人,咨询,线索"`
	Rows    []map[string]any `json:"rows"`
}

type ImportSnapshotResponse struct {
	ImportID string `json:"import_id" example:"0b6f3b4e-8f7c-4b7e-9b1a-1d2c3e4f5a6b"`
	Rows     int64  `json:"rows" example:"120"`
}

type RecordResponse struct {
	Date          string `json:"date" example:"2024-03-01"`
	BotUsername   string `json:"bot_username"`
	BotNoteName   string `json:"bot_note_name"`
	Product       string `json:"product,omitempty"`
	Group         string `json:"group"`
	Consultations int64  `json:"consultations"`
	Leads         int64  `json:"leads"`
}

type RecordsResponse struct {
	Count   int              `json:"count"`
	Records []RecordResponse `json:"records"`
}

// SelectionRequest is a saved filter. Dates are YYYY-MM-DD.
type SelectionRequest struct {
	From     string   `json:"from,omitempty" example:"2024-03-01"`
	To       string   `json:"to,omitempty" example:"2024-03-31"`
	Groups   []string `json:"groups,omitempty"`
	Bots     []string `json:"bots,omitempty"`
	Products []string `json:"products,omitempty"`
}

type SelectionResponse = SelectionRequest

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"from must be YYYY-MM-DD"`
}
