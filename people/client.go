package people

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/fetchr/requests"
)

const (
	// Endpoint is the people resource path relative to the base URL
	Endpoint = "people"

	// DefaultPageSize is used by AllPeople unless overridden
	DefaultPageSize = 20

	// DefaultConcurrency bounds GetPeopleByIDs
	DefaultConcurrency = 5
)

// Client is the people service
type Client struct {
	requests    *requests.Client
	pageSize    int
	concurrency int
	logger      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize sets the page size used by AllPeople
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithConcurrency sets how many lookups GetPeopleByIDs runs at once
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a new people service on top of a request client
func NewClient(rc *requests.Client, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if rc == nil {
		return nil, ErrNoClient
	}

	client := &Client{
		requests:    rc,
		pageSize:    DefaultPageSize,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// PageSize returns the page size used by AllPeople
func (c *Client) PageSize() int {
	return c.pageSize
}

// TestConnection checks the service answers the people listing
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.GetPeople(ctx); err != nil {
		return fmt.Errorf("failed to reach people service: %w", err)
	}
	return nil
}

// GetPerson retrieves a single person by id
func (c *Client) GetPerson(ctx context.Context, id string) (*Person, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}

	person, err := requests.Do[Person](ctx, c.requests, requests.Request{
		Method: requests.MethodGet,
		Path:   Endpoint + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get person %s: %w", id, err)
	}

	return &person, nil
}

// GetPeople retrieves the unpaginated people listing
func (c *Client) GetPeople(ctx context.Context) ([]Person, error) {
	people, err := requests.Do[[]Person](ctx, c.requests, requests.Request{
		Method: requests.MethodGet,
		Path:   Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}

	c.logger.Debug().Int("count", len(people)).Msg("Retrieved people")
	return people, nil
}

// ListPeople fetches one page of people
func (c *Client) ListPeople(ctx context.Context, page, pageSize int) (requests.Page[Person], error) {
	result, err := requests.DoAuthenticated[requests.Page[Person]](ctx, c.requests, requests.Request{
		Method: requests.MethodGet,
		Path:   Endpoint,
		Query: requests.QueryParams{
			requests.Param("page", page),
			requests.Param("size", pageSize),
		},
	})
	if err != nil {
		return requests.Page[Person]{}, err
	}

	c.logger.Debug().
		Int("page", result.Number).
		Int("count", len(result.Content)).
		Bool("last", result.Last).
		Msg("Retrieved people page")

	return result, nil
}

// AllPeople fetches every page, starting at page 0, one page at a time
func (c *Client) AllPeople(ctx context.Context) ([]Person, error) {
	people, err := requests.UnrollPages[Person](ctx, c.ListPeople, 0, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get all people: %w", err)
	}

	c.logger.Debug().Int("total", len(people)).Msg("Retrieved all people")
	return people, nil
}

// GetPeopleByIDs looks up several people at once. Results keep the order of
// ids; the first failure cancels the remaining lookups.
func (c *Client) GetPeopleByIDs(ctx context.Context, ids []string) ([]Person, error) {
	results := make([]Person, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			person, err := c.GetPerson(ctx, id)
			if err != nil {
				return err
			}
			results[i] = *person
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExportPeople requests an export in the given format. The service answers
// with an attachment, which the request client hands to its file sink.
func (c *Client) ExportPeople(ctx context.Context, format string) error {
	_, err := requests.DoAuthenticated[any](ctx, c.requests, requests.Request{
		Method: requests.MethodGet,
		Path:   Endpoint + "/export",
		Query:  requests.QueryParams{requests.Param("format", format)},
	})
	if err != nil {
		return fmt.Errorf("failed to export people: %w", err)
	}
	return nil
}
