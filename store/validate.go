package store

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"restaurant-menu-api/errs"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json name, which is also the attribute name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// FLOAT columns cannot hold NaN or infinities
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return v
}

// check validates rec against its struct tags.
func check(entity string, rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &errs.Error{Kind: errs.ErrValidation, Entity: entity, Err: err}
	}

	fe := fieldErrs[0]
	if fe.Param() != "" {
		return errs.Validation(entity, fe.Field(), "failed %s=%s", fe.Tag(), fe.Param())
	}
	return errs.Validation(entity, fe.Field(), "failed %s", fe.Tag())
}
