package store

import (
	"errors"
	"strings"

	"restaurant-menu-api/errs"

	"gorm.io/gorm"
)

// translate turns engine constraint failures into classified errors. Anything
// it does not recognise is returned untouched.
func translate(entity string, err error) error {
	if err == nil {
		return nil
	}

	var classified *errs.Error
	if errors.As(err, &classified) {
		return err
	}

	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errs.Reference(entity, "referenced record does not exist", err)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "UNIQUE constraint failed"):
		return &errs.Error{Kind: errs.ErrValidation, Entity: entity, Message: "value already exists", Err: err}
	case strings.Contains(msg, "NOT NULL constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return &errs.Error{Kind: errs.ErrValidation, Entity: entity, Message: "constraint violated", Err: err}
	}
	return err
}
