package repository

import "context"

// AIRepository generates natural-language insight over report text.
type AIRepository interface {
	// GenerateInsights answers a question grounded on the dataset
	// report passed as context.
	GenerateInsights(ctx context.Context, reportContext string, question string) (string, error)
}
