package services

import (
	"context"

	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"books.xdoubleu.com/pkg/backend"
)

type ReviewService struct {
	client backend.Client
}

func (service *ReviewService) Add(
	ctx context.Context,
	reviewDto *dtos.ReviewDto,
) (*backend.Review, error) {
	if err := validateDto(reviewDto); err != nil {
		return nil, err
	}

	return service.client.CreateReview(ctx, backend.CreateReviewDto{
		Content:        reviewDto.Content,
		Rate:           reviewDto.Rate,
		BookID:         reviewDto.BookID,
		ExternalBookID: reviewDto.ExternalBookID,
	})
}

// List returns the reviews of one book, or all reviews when bookID is nil.
func (service *ReviewService) List(
	ctx context.Context,
	bookID *int64,
) ([]backend.Review, error) {
	if bookID != nil {
		return service.client.ReviewsForBook(ctx, *bookID)
	}

	return service.client.ListReviews(ctx)
}

func (service *ReviewService) Edit(
	ctx context.Context,
	editReviewDto *dtos.EditReviewDto,
) (*backend.Review, error) {
	if err := validateDto(editReviewDto); err != nil {
		return nil, err
	}

	return service.client.UpdateReview(ctx, editReviewDto.ReviewID, backend.UpdateReviewDto{
		Content: editReviewDto.Content,
		Rate:    editReviewDto.Rate,
	})
}

func (service *ReviewService) Delete(ctx context.Context, reviewID int64) error {
	return service.client.DeleteReview(ctx, reviewID)
}
