package types

import "errors"

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrForbidden = errors.New("action forbidden")
var ErrBadRequest = errors.New("invalid input")

// Response is the generic envelope for simple success/error messages.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PageRequest carries normalized pagination parameters parsed from the
// query string. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Paginated wraps a page of results together with total counts.
type Paginated[T any] struct {
	Items       []T   `json:"items"`
	Total       int   `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

func NewPaginated[T any](items []T, total int, req PageRequest) Paginated[T] {
	pages := 0
	if req.PageSize > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}
	return Paginated[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: req.Page,
		PerPage:     req.PageSize,
	}
}
