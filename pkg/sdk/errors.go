package studentmatch

import "github.com/campuslab/studentmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingCountMismatch = domain.ErrEmbeddingCountMismatch
)
