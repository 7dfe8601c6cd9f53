package services

import (
	"context"
	"log/slog"

	"books.xdoubleu.com/internal/recommendations"
	"books.xdoubleu.com/pkg/backend"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

type RecommendationService struct {
	logger *slog.Logger
	client backend.Client
	auth   *AuthService
}

type Recommendations struct {
	Text  string
	Items []recommendations.Recommendation
}

// ForCurrentUser fetches the generated recommendations of the signed in
// user and links them to the catalog where possible.
func (service *RecommendationService) ForCurrentUser(
	ctx context.Context,
) (*Recommendations, error) {
	user, err := service.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	text, err := service.client.GetRecommendations(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	items := recommendations.Parse(text)

	//nolint:exhaustruct //other fields are optional
	catalog, err := service.client.ListBooks(ctx, backend.BookSearchParams{
		PageSize: MaxPageSize,
	})
	if err != nil {
		service.logger.Warn("failed to load catalog for matching", logging.ErrAttr(err))
	} else {
		items = recommendations.Match(items, catalog.Items)
	}

	return &Recommendations{
		Text:  recommendations.Clean(text),
		Items: items,
	}, nil
}
