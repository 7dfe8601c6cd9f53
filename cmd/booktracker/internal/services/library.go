package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"books.xdoubleu.com/pkg/backend"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
)

type LibraryService struct {
	logger *slog.Logger
	client backend.Client
}

type Shelf struct {
	Status backend.Status
	Books  []backend.UserBook
}

// Shelves reads every status shelf in parallel. Shelves that fail to load
// are reported together, the ones that loaded are still returned.
func (service *LibraryService) Shelves(ctx context.Context) ([]Shelf, error) {
	workerPool := threading.NewWorkerPool(
		service.logger,
		len(backend.Statuses),
		len(backend.Statuses),
	)

	mu := sync.Mutex{}
	byStatus := map[backend.Status][]backend.UserBook{}
	errs := []error{}

	for _, status := range backend.Statuses {
		workerPool.EnqueueWork(func(_ context.Context, _ *slog.Logger) error {
			userBooks, errIn := service.client.UserBooksByStatus(ctx, status)

			mu.Lock()
			defer mu.Unlock()

			if errIn != nil {
				errIn = fmt.Errorf("shelf %s: %w", status, errIn)
				errs = append(errs, errIn)
				return errIn
			}

			byStatus[status] = userBooks
			return nil
		})
	}

	workerPool.WaitUntilDone()

	shelves := make([]Shelf, 0, len(backend.Statuses))
	for _, status := range backend.Statuses {
		if userBooks, ok := byStatus[status]; ok {
			shelves = append(shelves, Shelf{Status: status, Books: userBooks})
		}
	}

	return shelves, errors.Join(errs...)
}

func (service *LibraryService) Add(
	ctx context.Context,
	shelveBookDto *dtos.ShelveBookDto,
) (*backend.UserBook, error) {
	if err := validateDto(shelveBookDto); err != nil {
		return nil, err
	}

	return service.client.AddUserBook(ctx, backend.CreateUserBookDto{
		BookID:         shelveBookDto.BookID,
		ExternalBookID: shelveBookDto.ExternalBookID,
		Status:         shelveBookDto.Status,
	})
}

func (service *LibraryService) Move(
	ctx context.Context,
	moveBookDto *dtos.MoveBookDto,
) (*backend.UserBook, error) {
	if err := validateDto(moveBookDto); err != nil {
		return nil, err
	}

	return service.client.UpdateUserBookStatus(
		ctx,
		moveBookDto.UserBookID,
		moveBookDto.Status,
	)
}

func (service *LibraryService) Remove(ctx context.Context, userBookID int64) error {
	return service.client.RemoveUserBook(ctx, userBookID)
}
