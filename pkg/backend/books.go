package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const BooksEndpoint = "/books"

type Book struct {
	ID            *int64   `json:"id"`
	ExternalID    *string  `json:"external_id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   *string  `json:"description,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	PublishedDate *string  `json:"published_date,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	ISBN          *string  `json:"isbn,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Language      *string  `json:"language,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

type ExternalBook struct {
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Language      string   `json:"language,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
}

type CreateBookDto struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   *string  `json:"description,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	PublishedDate *string  `json:"published_date,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	ISBN          *string  `json:"isbn,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Language      *string  `json:"language,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

type BookSearchParams struct {
	Query    string
	Page     int
	PageSize int
	Author   string
	Genre    string
	Language string
}

func (params BookSearchParams) values() url.Values {
	values := url.Values{}

	setIfNotEmpty(values, "q", params.Query)
	setIfPositive(values, "page", params.Page)
	setIfPositive(values, "page_size", params.PageSize)
	setIfNotEmpty(values, "author", params.Author)
	setIfNotEmpty(values, "genre", params.Genre)
	setIfNotEmpty(values, "language", params.Language)

	return values
}

type ExternalSearchParams struct {
	Query      string
	Page       int
	MaxResults int
}

func (params ExternalSearchParams) values() url.Values {
	values := url.Values{}

	setIfNotEmpty(values, "q", params.Query)
	setIfPositive(values, "page", params.Page)
	setIfPositive(values, "max_results", params.MaxResults)

	return values
}

func (client *client) ListBooks(
	ctx context.Context,
	params BookSearchParams,
) (*Page[Book], error) {
	//nolint:exhaustruct //other fields are optional
	return getPage[Book](ctx, client, BooksEndpoint, RequestOptions{
		Query: params.values(),
	})
}

func (client *client) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	endpoint := fmt.Sprintf("%s/%d", BooksEndpoint, bookID)

	var book Book
	//nolint:exhaustruct //defaults
	err := client.Get(ctx, endpoint, RequestOptions{}, &book)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (client *client) CreateBook(
	ctx context.Context,
	createBookDto CreateBookDto,
) (*Book, error) {
	var book Book
	//nolint:exhaustruct //defaults
	err := client.Post(ctx, BooksEndpoint, createBookDto, RequestOptions{}, &book)
	if err != nil {
		return nil, err
	}

	client.clearCache(ctx)

	return &book, nil
}

func (client *client) SearchExternalBooks(
	ctx context.Context,
	params ExternalSearchParams,
) (*Page[ExternalBook], error) {
	//nolint:exhaustruct //other fields are optional
	return getPage[ExternalBook](ctx, client, BooksEndpoint+"/search-external", RequestOptions{
		Query: params.values(),
	})
}

func (client *client) GetPopularBooks(
	ctx context.Context,
	page int,
	maxResults int,
) (*Page[ExternalBook], error) {
	values := url.Values{}
	setIfPositive(values, "page", page)
	setIfPositive(values, "max_results", maxResults)

	//nolint:exhaustruct //other fields are optional
	return getPage[ExternalBook](ctx, client, BooksEndpoint+"/popular", RequestOptions{
		Query: values,
	})
}

func (client *client) GetExternalBook(
	ctx context.Context,
	externalID string,
) (*ExternalBook, error) {
	endpoint := fmt.Sprintf("%s/external/%s", BooksEndpoint, url.PathEscape(externalID))

	var book ExternalBook
	//nolint:exhaustruct //defaults
	err := client.Get(ctx, endpoint, RequestOptions{}, &book)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// getPage reads a paginated endpoint, keeping the pagination metadata that
// sits next to the data in the envelope.
func getPage[T any](
	ctx context.Context,
	client *client,
	path string,
	opts RequestOptions,
) (*Page[T], error) {
	env, err := client.sendRequest(ctx, http.MethodGet, path, nil, opts)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err = env.decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &Page[T]{
		Items:      items,
		Pagination: env.Pagination,
	}, nil
}

func setIfNotEmpty(values url.Values, key string, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setIfPositive(values url.Values, key string, value int) {
	if value > 0 {
		values.Set(key, strconv.Itoa(value))
	}
}
