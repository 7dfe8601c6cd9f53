package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"books.xdoubleu.com/pkg/backend"
)

type Services struct {
	Auth            *AuthService
	Catalog         *CatalogService
	Library         *LibraryService
	Reviews         *ReviewService
	Recommendations *RecommendationService
}

func New(logger *slog.Logger, client backend.Client) *Services {
	auth := &AuthService{client: client}

	return &Services{
		Auth:    auth,
		Catalog: &CatalogService{client: client},
		Library: &LibraryService{
			logger: logger,
			client: client,
		},
		Reviews: &ReviewService{client: client},
		Recommendations: &RecommendationService{
			logger: logger,
			client: client,
			auth:   auth,
		},
	}
}

type validatable interface {
	Validate() (bool, map[string]string)
}

// ValidationError holds the field errors of an invalid dto.
type ValidationError struct {
	Errors map[string]string
}

func (err *ValidationError) Error() string {
	keys := make([]string, 0, len(err.Errors))
	for key := range err.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, key := range keys {
		msgs = append(msgs, fmt.Sprintf("%s %s", key, err.Errors[key]))
	}

	return "invalid input: " + strings.Join(msgs, ", ")
}

func validateDto(dto validatable) error {
	if valid, errs := dto.Validate(); !valid {
		return &ValidationError{Errors: errs}
	}

	return nil
}
