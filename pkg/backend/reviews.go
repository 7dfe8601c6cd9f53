package backend

import (
	"context"
	"fmt"
)

const ReviewsEndpoint = "/reviews"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID                 int64   `json:"id"`
	Content            string  `json:"content"`
	Rate               int     `json:"rate"`
	UserID             int64   `json:"user_id"`
	BookID             *int64  `json:"book_id,omitempty"`
	ExternalBookID     *string `json:"external_book_id,omitempty"`
	CreatedAt          *string `json:"created_at,omitempty"`
	UserName           *string `json:"user_name,omitempty"`
	UserProfilePicture *string `json:"user_profile_picture,omitempty"`
}

type CreateReviewDto struct {
	Content        string  `json:"content"`
	Rate           int     `json:"rate"`
	BookID         *int64  `json:"book_id,omitempty"`
	ExternalBookID *string `json:"external_book_id,omitempty"`
}

type UpdateReviewDto struct {
	Content *string `json:"content,omitempty"`
	Rate    *int    `json:"rate,omitempty"`
}

func (client *client) CreateReview(
	ctx context.Context,
	createReviewDto CreateReviewDto,
) (*Review, error) {
	var review Review
	//nolint:exhaustruct //defaults
	err := client.Post(ctx, ReviewsEndpoint, createReviewDto, RequestOptions{}, &review)
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (client *client) ListReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	err := client.Get(ctx, ReviewsEndpoint, noCache, &reviews)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (client *client) GetReview(ctx context.Context, reviewID int64) (*Review, error) {
	endpoint := fmt.Sprintf("%s/%d", ReviewsEndpoint, reviewID)

	var review Review
	err := client.Get(ctx, endpoint, noCache, &review)
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (client *client) ReviewsForBook(ctx context.Context, bookID int64) ([]Review, error) {
	endpoint := fmt.Sprintf("%s/book/%d", ReviewsEndpoint, bookID)

	var reviews []Review
	err := client.Get(ctx, endpoint, noCache, &reviews)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (client *client) UpdateReview(
	ctx context.Context,
	reviewID int64,
	updateReviewDto UpdateReviewDto,
) (*Review, error) {
	endpoint := fmt.Sprintf("%s/%d", ReviewsEndpoint, reviewID)

	var review Review
	//nolint:exhaustruct //defaults
	err := client.Put(ctx, endpoint, updateReviewDto, RequestOptions{}, &review)
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (client *client) DeleteReview(ctx context.Context, reviewID int64) error {
	endpoint := fmt.Sprintf("%s/%d", ReviewsEndpoint, reviewID)
	//nolint:exhaustruct //defaults
	return client.Delete(ctx, endpoint, RequestOptions{}, nil)
}
