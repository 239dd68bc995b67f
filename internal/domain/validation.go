package domain

import (
	"fmt"
	"strings"
)

const (
	maxNameLength  = 200
	maxMatchLimit  = 100
	maxBatchSize   = 1000
	maxTextLength  = 5000
	defaultMatches = 10
)

func ValidateProductName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: product_name is required", ErrInvalidInput)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%w: product_name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func ValidateBrand(brand string) error {
	trimmed := strings.TrimSpace(brand)
	if trimmed == "" {
		return fmt.Errorf("%w: brand is required", ErrInvalidInput)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%w: brand exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func ValidateBudget(budget float64) error {
	if budget < 0 {
		return fmt.Errorf("%w: total_budget must be >= 0", ErrInvalidInput)
	}
	return nil
}

func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: match_threshold must be between 0 and 1", ErrInvalidInput)
	}
	return nil
}

// NormalizeLimit clamps a requested result count to [1, maxMatchLimit],
// substituting the default when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultMatches
	}
	if limit > maxMatchLimit {
		return maxMatchLimit
	}
	return limit
}

func ValidateBatchSize(n int) error {
	if n > maxBatchSize {
		return fmt.Errorf("%w: at most %d creator ids per batch", ErrInvalidInput, maxBatchSize)
	}
	return nil
}

func ValidateEmbeddingText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: embedding text is empty", ErrInvalidInput)
	}
	if len(trimmed) > maxTextLength {
		return fmt.Errorf("%w: embedding text exceeds %d characters", ErrInvalidInput, maxTextLength)
	}
	return nil
}
