package incident

// CreateInput is the citizen submission payload. Validation is done in the
// intake service so failures come back field-by-field, not as a single
// binder error.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Pincode     string   `json:"pincode"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	// Images are data-URI or raw base64 photo payloads; the intake stores
	// them and keeps only the resulting URLs.
	Images      []string `json:"images"`
	NoLocation  bool     `json:"noLocation"`
	Severity    string   `json:"severity"`
	Priority    string   `json:"priority"`
}

// ReportInput is the edge-device ingestion payload (POST /report).
type ReportInput struct {
	Description string   `json:"description" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Image       string   `json:"image"`
	Severity    string   `json:"severity"`
	Source      string   `json:"source"`
	DeviceID    *string  `json:"deviceId"`
}

type UpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Priority    *string  `json:"priority"`
	Severity    *string  `json:"severity"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type Stats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Pending    int64 `json:"pending"`
}
