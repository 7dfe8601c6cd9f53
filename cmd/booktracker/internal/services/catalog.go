package services

import (
	"context"
	"errors"

	"books.xdoubleu.com/pkg/backend"
)

const (
	DefaultPageSize        = 10
	MaxPageSize            = 100
	DefaultPopularPageSize = 12
)

type CatalogService struct {
	client backend.Client
}

type BookDetails struct {
	Book     *backend.Book
	Reviews  []backend.Review
	UserBook *backend.UserBook
}

func (service *CatalogService) List(
	ctx context.Context,
	params backend.BookSearchParams,
) (*backend.Page[backend.Book], error) {
	params.PageSize = clampPageSize(params.PageSize, DefaultPageSize)
	return service.client.ListBooks(ctx, params)
}

// Show returns a book with its reviews and, when signed in, its place in the
// reading list. Extras that cannot be read leave their field empty.
func (service *CatalogService) Show(ctx context.Context, bookID int64) (*BookDetails, error) {
	book, err := service.client.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	details := &BookDetails{
		Book:     book,
		Reviews:  []backend.Review{},
		UserBook: nil,
	}

	reviews, err := service.client.ReviewsForBook(ctx, bookID)
	if err != nil && !isOptional(err) {
		return nil, err
	}
	if err == nil {
		details.Reviews = reviews
	}

	userBook, err := service.client.UserBookForBook(ctx, bookID)
	if err != nil && !isOptional(err) {
		return nil, err
	}
	details.UserBook = userBook

	return details, nil
}

func (service *CatalogService) Create(
	ctx context.Context,
	createBookDto backend.CreateBookDto,
) (*backend.Book, error) {
	return service.client.CreateBook(ctx, createBookDto)
}

func (service *CatalogService) SearchExternal(
	ctx context.Context,
	params backend.ExternalSearchParams,
) (*backend.Page[backend.ExternalBook], error) {
	params.MaxResults = clampPageSize(params.MaxResults, DefaultPageSize)
	return service.client.SearchExternalBooks(ctx, params)
}

func (service *CatalogService) Popular(
	ctx context.Context,
	page int,
	maxResults int,
) (*backend.Page[backend.ExternalBook], error) {
	return service.client.GetPopularBooks(
		ctx,
		page,
		clampPageSize(maxResults, DefaultPopularPageSize),
	)
}

func clampPageSize(size int, fallback int) int {
	if size <= 0 {
		return fallback
	}

	return min(size, MaxPageSize)
}

func isOptional(err error) bool {
	return errors.Is(err, backend.ErrUnavailable) ||
		errors.Is(err, backend.ErrSessionExpired)
}
