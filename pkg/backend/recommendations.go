package backend

import (
	"context"
	"fmt"
)

const RecommendationsEndpoint = "/recommendations"

// GetRecommendations returns the free-form recommendation text generated for
// the user. Generation is expensive and personal, so it is never cached.
func (client *client) GetRecommendations(ctx context.Context, userID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/%d", RecommendationsEndpoint, userID)

	var text string
	err := client.Get(ctx, endpoint, noCache, &text)
	if err != nil {
		return "", err
	}

	return text, nil
}
