package persistence

import (
	"errors"

	"github.com/drobe/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFoundOr turns gorm.ErrRecordNotFound into a NOT_FOUND domain error
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(message)
	}
	return err
}

// translateWriteError maps constraint violations reported by the driver
// (requires gorm.Config.TranslateError) onto domain errors
func translateWriteError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeAlreadyExists, subject+" already exists").WithCause(err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.NewConsistencyError(subject+" violates a table constraint").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeInvalidState, subject+" references a missing record or is still referenced").WithCause(err)
	}
	return err
}
