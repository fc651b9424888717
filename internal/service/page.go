// Package service contains the business rules of the job board.
//
// Handlers parse HTTP and call a service; services check roles and
// ownership through the guard package, validate input, and talk to storage
// through the repository interfaces. Nothing here imports net/http or a
// concrete database package, so every rule is testable with plain fakes.
package service

import (
	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// PageResult is one page of items plus the total count across all pages.
type PageResult[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}

// Normalize rejects non-positive numbers and clamps Size to maxSize.
// A non-positive maxSize means MaxPageSize.
func (p Page) Normalize(maxSize int) (Page, error) {
	if p.Number < 1 {
		return p, apperror.ValidationFailed("page", "page must be greater than 0")
	}
	if p.Size < 1 {
		return p, apperror.ValidationFailed("page_size", "page_size must be greater than 0")
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p, nil
}

// Options converts the page to a LIMIT/OFFSET window:
// page 3 of size 20 → limit 20, offset 40.
func (p Page) Options() repository.ListOptions {
	return repository.ListOptions{
		Limit:  p.Size,
		Offset: (p.Number - 1) * p.Size,
	}
}

func newPageResult[T any](items []T, p Page, total int) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Number: p.Number, Size: p.Size, Total: total}
}
