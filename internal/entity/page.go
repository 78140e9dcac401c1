package entity

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageRequest struct {
	Page int
	Size int
}

// Offset saturates at math.MaxInt instead of wrapping around.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// InRange reports whether Offset is exact.
func (p PageRequest) InRange() bool {
	return p.Size <= 0 || p.Page <= math.MaxInt/p.Size
}

// Page is one window of an offset-paginated listing.
type Page[T any] struct {
	Content       []T
	Page          int
	Size          int
	TotalElements int64
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}
