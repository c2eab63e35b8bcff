package dto

// ── Pagination ──

// PaginationRequest page query.
type PaginationRequest struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// GetPage page number, default 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// MessageResponse outcome carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}
