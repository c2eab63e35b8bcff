package dto

// ── Events ──

// CreateEventRequest admin creates an event.
type CreateEventRequest struct {
	Name          string `json:"name"           binding:"required,max=200"`
	EventDate     string `json:"event_date"     binding:"required,isodate"`
	Location      string `json:"location"       binding:"required,max=200"`
	Description   string `json:"description"    binding:"required"`
	CoordinatorID int64  `json:"coordinator_id" binding:"required,min=1"`
}

// SetEventStatusRequest Open or Closed. Other values are rejected by the service.
type SetEventStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// EventResponse event as listed.
type EventResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	EventDate       string `json:"event_date"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	CoordinatorID   *int64 `json:"coordinator_id,omitempty"`
	CoordinatorName string `json:"coordinator_name,omitempty"`
	DeadlinePassed  bool   `json:"deadline_passed"`
	IsRegistered    bool   `json:"is_registered"`
}

// EventPage one page of public events.
type EventPage struct {
	Events   []EventResponse
	Total    int64
	Page     int
	PageSize int
}
