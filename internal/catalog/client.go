package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API defines every call the coordinator makes against the catalog service.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListAuthors(ctx context.Context, params ListParams) ([]Author, error)
	GetAuthor(ctx context.Context, id int64) (*AuthorDetail, error)
	CreateAuthor(ctx context.Context, author AuthorCreate) (*AuthorDetail, error)
	UpdateAuthor(ctx context.Context, id int64, author AuthorCreate) (*AuthorDetail, error)
	DeleteAuthor(ctx context.Context, id int64) error

	ListBooks(ctx context.Context, params BookListParams) ([]BookSummary, error)
	GetBook(ctx context.Context, id int64) (*BookDetail, error)
	CreateBook(ctx context.Context, book BookCreate) (*BookDetail, error)
	UpdateBook(ctx context.Context, id int64, book BookCreate) (*BookDetail, error)
	DeleteBook(ctx context.Context, id int64) error

	ListGenres(ctx context.Context) ([]Genre, error)
	GetGenre(ctx context.Context, id int64) (*Genre, error)
	ListPublishers(ctx context.Context) ([]Publisher, error)
	GetPublisher(ctx context.Context, id int64) (*Publisher, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the catalog REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	defaultUserAgent = "folio/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListParams configures pagination and sorting for list endpoints. Nil or
// empty fields are left out of the query string.
type ListParams struct {
	Skip   *int
	Limit  *int
	SortBy string
	Order  string
}

func (p ListParams) values() url.Values {
	values := url.Values{}
	if p.Skip != nil {
		values.Set("skip", strconv.Itoa(*p.Skip))
	}
	if p.Limit != nil {
		values.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.SortBy != "" {
		values.Set("sort_by", p.SortBy)
	}
	if p.Order != "" {
		values.Set("order", p.Order)
	}
	return values
}

// BookListParams adds the /books filters to ListParams.
type BookListParams struct {
	ListParams
	AuthorID    *int64
	GenreID     *int64
	PublisherID *int64
}

func (p BookListParams) values() url.Values {
	values := p.ListParams.values()
	if p.AuthorID != nil {
		values.Set("author_id", strconv.FormatInt(*p.AuthorID, 10))
	}
	if p.GenreID != nil {
		values.Set("genre_id", strconv.FormatInt(*p.GenreID, 10))
	}
	if p.PublisherID != nil {
		values.Set("publisher_id", strconv.FormatInt(*p.PublisherID, 10))
	}
	return values
}

// Ptr returns a pointer to v, for filling optional query parameters.
func Ptr[T any](v T) *T {
	return &v
}

// ListAuthors retrieves the author list.
func (c *Client) ListAuthors(ctx context.Context, params ListParams) ([]Author, error) {
	var payload []Author
	if err := c.do(ctx, http.MethodGet, withQuery("/authors", params.values()), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetAuthor retrieves an author together with its books.
func (c *Client) GetAuthor(ctx context.Context, id int64) (*AuthorDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("author id required")
	}
	var payload AuthorDetail
	if err := c.do(ctx, http.MethodGet, entityPath("/authors", id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateAuthor creates an author and returns the stored record.
func (c *Client) CreateAuthor(ctx context.Context, author AuthorCreate) (*AuthorDetail, error) {
	var payload AuthorDetail
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/authors"}, author, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateAuthor replaces an author's fields.
func (c *Client) UpdateAuthor(ctx context.Context, id int64, author AuthorCreate) (*AuthorDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("author id required")
	}
	var payload AuthorDetail
	if err := c.do(ctx, http.MethodPut, entityPath("/authors", id), author, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteAuthor removes an author. The API answers 204 on success.
func (c *Client) DeleteAuthor(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("author id required")
	}
	return c.do(ctx, http.MethodDelete, entityPath("/authors", id), nil, nil)
}

// ListBooks retrieves book summaries, optionally filtered.
func (c *Client) ListBooks(ctx context.Context, params BookListParams) ([]BookSummary, error) {
	var payload []BookSummary
	if err := c.do(ctx, http.MethodGet, withQuery("/books", params.values()), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetBook retrieves a book together with its authors.
func (c *Client) GetBook(ctx context.Context, id int64) (*BookDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("book id required")
	}
	var payload BookDetail
	if err := c.do(ctx, http.MethodGet, entityPath("/books", id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateBook creates a book.
func (c *Client) CreateBook(ctx context.Context, book BookCreate) (*BookDetail, error) {
	var payload BookDetail
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/books"}, book, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateBook replaces a book's fields and author associations.
func (c *Client) UpdateBook(ctx context.Context, id int64, book BookCreate) (*BookDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("book id required")
	}
	var payload BookDetail
	if err := c.do(ctx, http.MethodPut, entityPath("/books", id), book, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteBook removes a book. The API answers 204 on success.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("book id required")
	}
	return c.do(ctx, http.MethodDelete, entityPath("/books", id), nil, nil)
}

// ListGenres retrieves the genre reference list.
func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	var payload []Genre
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/genres"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetGenre retrieves a single genre.
func (c *Client) GetGenre(ctx context.Context, id int64) (*Genre, error) {
	if id <= 0 {
		return nil, fmt.Errorf("genre id required")
	}
	var payload Genre
	if err := c.do(ctx, http.MethodGet, entityPath("/genres", id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListPublishers retrieves the publisher reference list.
func (c *Client) ListPublishers(ctx context.Context) ([]Publisher, error) {
	var payload []Publisher
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/publishers"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetPublisher retrieves a single publisher.
func (c *Client) GetPublisher(ctx context.Context, id int64) (*Publisher, error) {
	if id <= 0 {
		return nil, fmt.Errorf("publisher id required")
	}
	var payload Publisher
	if err := c.do(ctx, http.MethodGet, entityPath("/publishers", id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.resolve(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With("method", method, "path", rel.Path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("catalog request failed", "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug("catalog request", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, rel.Path, resp)
		log.Warn("catalog request rejected", "status", apiErr.Status, "detail", apiErr.Message)
		return apiErr
	}
	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) resolve(rel *url.URL) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + rel.Path
	u.RawQuery = rel.RawQuery
	return &u
}

func entityPath(collection string, id int64) *url.URL {
	return &url.URL{Path: collection + "/" + strconv.FormatInt(id, 10)}
}

func withQuery(path string, values url.Values) *url.URL {
	return &url.URL{Path: path, RawQuery: values.Encode()}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
