package backend

import (
	"context"
	"fmt"
	"net/url"
)

const UserBooksEndpoint = "/user-books"

type Status string

const (
	WantToRead       Status = "want_to_read"
	CurrentlyReading Status = "currently_reading"
	Read             Status = "read"
)

//nolint:gochecknoglobals //fixed set
var Statuses = []Status{WantToRead, CurrentlyReading, Read}

type UserBook struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	BookID         *int64  `json:"book_id"`
	ExternalBookID *string `json:"external_book_id"`
	Status         Status  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	Book           *Book   `json:"book"`
}

type CreateUserBookDto struct {
	BookID         *int64  `json:"book_id,omitempty"`
	ExternalBookID *string `json:"external_book_id,omitempty"`
	Status         Status  `json:"status"`
}

type UpdateUserBookDto struct {
	Status Status `json:"status"`
}

// reading list data changes under the user's hands, never serve it cached
//
//nolint:gochecknoglobals //shared options
var noCache = RequestOptions{NoCache: true} //nolint:exhaustruct //other fields are optional

func (client *client) AddUserBook(
	ctx context.Context,
	createUserBookDto CreateUserBookDto,
) (*UserBook, error) {
	var userBook UserBook
	//nolint:exhaustruct //defaults
	err := client.Post(ctx, UserBooksEndpoint, createUserBookDto, RequestOptions{}, &userBook)
	if err != nil {
		return nil, err
	}

	return &userBook, nil
}

func (client *client) MyBooks(ctx context.Context) ([]UserBook, error) {
	var userBooks []UserBook
	err := client.Get(ctx, UserBooksEndpoint+"/my-books", noCache, &userBooks)
	if err != nil {
		return nil, err
	}

	return userBooks, nil
}

func (client *client) UserBookForBook(ctx context.Context, bookID int64) (*UserBook, error) {
	endpoint := fmt.Sprintf("%s/book/%d", UserBooksEndpoint, bookID)

	var userBook UserBook
	err := client.Get(ctx, endpoint, noCache, &userBook)
	if err != nil {
		return nil, err
	}

	return &userBook, nil
}

func (client *client) UserBookForExternalBook(
	ctx context.Context,
	externalID string,
) (*UserBook, error) {
	endpoint := fmt.Sprintf(
		"%s/book/external/%s",
		UserBooksEndpoint,
		url.PathEscape(externalID),
	)

	var userBook UserBook
	err := client.Get(ctx, endpoint, noCache, &userBook)
	if err != nil {
		return nil, err
	}

	return &userBook, nil
}

func (client *client) UpdateUserBookStatus(
	ctx context.Context,
	userBookID int64,
	status Status,
) (*UserBook, error) {
	endpoint := fmt.Sprintf("%s/%d", UserBooksEndpoint, userBookID)

	var userBook UserBook
	err := client.Put(
		ctx,
		endpoint,
		UpdateUserBookDto{Status: status},
		RequestOptions{}, //nolint:exhaustruct //defaults
		&userBook,
	)
	if err != nil {
		return nil, err
	}

	return &userBook, nil
}

func (client *client) RemoveUserBook(ctx context.Context, userBookID int64) error {
	endpoint := fmt.Sprintf("%s/%d", UserBooksEndpoint, userBookID)
	//nolint:exhaustruct //defaults
	return client.Delete(ctx, endpoint, RequestOptions{}, nil)
}

func (client *client) UserBooksByStatus(
	ctx context.Context,
	status Status,
) ([]UserBook, error) {
	endpoint := fmt.Sprintf("%s/status/%s", UserBooksEndpoint, status)

	var userBooks []UserBook
	err := client.Get(ctx, endpoint, noCache, &userBooks)
	if err != nil {
		return nil, err
	}

	return userBooks, nil
}
