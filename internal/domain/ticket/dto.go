package ticket

type AssignInput struct {
	AssigneeName  string `json:"assigneeName"`
	AssigneePhone string `json:"assigneePhone"`
	// AssignedTo carries the display name the legacy frontend sends; when
	// AssigneeName is empty it is used instead.
	AssignedTo string `json:"assignedTo"`
	// AssigneePhoto is a data-URI or base64 photo of the worker. Required
	// on first assignment, optional on reassignment.
	AssigneePhoto string  `json:"assigneePhoto"`
	Notes         *string `json:"notes"`
}

func (in AssignInput) Name() string {
	if in.AssigneeName != "" {
		return in.AssigneeName
	}
	return in.AssignedTo
}

type UpdateStatusInput struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

type ReopenInput struct {
	Message string `json:"message"`
}

type Filter struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Category string `form:"category"`
}

type Stats struct {
	TotalTickets   int64   `json:"totalTickets"`
	OpenTickets    int64   `json:"openTickets"`
	InProgress     int64   `json:"inProgress"`
	ResolvedToday  int64   `json:"resolvedToday"`
	AvgResponse    string  `json:"avgResponseTime"`
	ResolutionRate float64 `json:"resolutionRate"`
}
