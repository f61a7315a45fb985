package rank

import (
	"context"

	"github.com/campuslab/studentmatch/internal/domain"
)

// Embedder vectorizes candidate and theme texts. The candidate batch must be
// embedded in a single call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
