package people

import (
	"context"

	"github.com/s0up4200/fetchr/requests"
)

// API defines the interface for people service operations
type API interface {
	// GetPerson retrieves a single person by id
	GetPerson(ctx context.Context, id string) (*Person, error)

	// GetPeople retrieves the unpaginated people listing
	GetPeople(ctx context.Context) ([]Person, error)

	// GetPeopleByIDs retrieves several people, keeping input order
	GetPeopleByIDs(ctx context.Context, ids []string) ([]Person, error)

	// ExportPeople asks the service for an export file, which is written to
	// the request client's file sink
	ExportPeople(ctx context.Context, format string) error
}

// PageFetcher provides methods for fetching people with pagination
type PageFetcher interface {
	// ListPeople fetches a single page of people
	ListPeople(ctx context.Context, page, pageSize int) (requests.Page[Person], error)

	// AllPeople fetches every page and concatenates them
	AllPeople(ctx context.Context) ([]Person, error)
}
