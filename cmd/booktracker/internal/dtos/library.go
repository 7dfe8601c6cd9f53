package dtos

import (
	"books.xdoubleu.com/pkg/backend"
	"github.com/xdoubleu/essentia/v2/pkg/validate"
)

// BookRef points at either a catalog book or an external one.
type BookRef struct {
	BookID         *int64
	ExternalBookID *string
}

func (ref BookRef) check(errs map[string]string) {
	if (ref.BookID == nil) == (ref.ExternalBookID == nil) {
		errs["book"] = "must reference exactly one of a catalog or external book"
	}
}

type ShelveBookDto struct {
	BookRef
	Status backend.Status
}

func (dto *ShelveBookDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "status", dto.Status, validate.IsInSlice(backend.Statuses))

	errs := copyErrors(v.Errors())
	dto.check(errs)

	return len(errs) == 0, errs
}

type MoveBookDto struct {
	UserBookID int64
	Status     backend.Status
}

func (dto *MoveBookDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "status", dto.Status, validate.IsInSlice(backend.Statuses))

	return v.Valid(), v.Errors()
}

type ReviewDto struct {
	BookRef
	Content string
	Rate    int
}

//nolint:gochecknoglobals //fixed set
var ratings = []int{1, 2, 3, 4, 5}

func (dto *ReviewDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "content", dto.Content, validate.IsNotEmpty)
	validate.Check(v, "rate", dto.Rate, validate.IsInSlice(ratings))

	errs := copyErrors(v.Errors())
	dto.check(errs)

	return len(errs) == 0, errs
}

type EditReviewDto struct {
	ReviewID int64
	Content  *string
	Rate     *int
}

func (dto *EditReviewDto) Validate() (bool, map[string]string) {
	v := validate.New()

	if dto.Content != nil {
		validate.Check(v, "content", *dto.Content, validate.IsNotEmpty)
	}
	if dto.Rate != nil {
		validate.Check(v, "rate", *dto.Rate, validate.IsInSlice(ratings))
	}

	errs := copyErrors(v.Errors())
	if dto.Content == nil && dto.Rate == nil {
		errs["review"] = "nothing to update"
	}

	return len(errs) == 0, errs
}

func copyErrors(errs map[string]string) map[string]string {
	copied := make(map[string]string, len(errs))
	for key, msg := range errs {
		copied[key] = msg
	}

	return copied
}
