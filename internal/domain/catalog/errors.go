package catalog

import "github.com/drobe/backend/internal/domain/shared"

func invalid(message string) error {
	return shared.NewValidationError(message)
}
