package requests

import (
	"context"
	"fmt"
)

// Sort describes the ordering state reported with a page
type Sort struct {
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
}

// Page is one slice of a paginated result set. The service guarantees
// len(Content) == NumberOfElements and a reliable Last flag.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Last             bool  `json:"last"`
	TotalPages       int   `json:"totalPages"`
	TotalElements    int64 `json:"totalElements"`
	Sort             Sort  `json:"sort"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
}

// HasNext reports whether more pages follow this one
func (p Page[T]) HasNext() bool {
	return !p.Last
}

// PageFetcher fetches a single page
type PageFetcher[T any] func(ctx context.Context, pageNumber, pageSize int) (Page[T], error)

// UnrollPages fetches pages one after another, starting at pageNumber, and
// concatenates their content in page order. It stops after the first page
// whose Last flag is set.
//
// Only Last ends the loop; TotalPages and TotalElements are ignored. A
// fetcher that never reports Last makes UnrollPages run forever, and one
// that reports it early truncates the result. Keeping Last honest is the
// caller's job.
func UnrollPages[T any](ctx context.Context, fetch PageFetcher[T], pageNumber, pageSize int) ([]T, error) {
	var content []T

	for current := pageNumber; ; current++ {
		page, err := fetch(ctx, current, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", current, err)
		}

		content = append(content, page.Content...)

		if page.Last {
			return content, nil
		}
	}
}
