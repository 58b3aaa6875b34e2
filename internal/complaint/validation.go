package complaint

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("complaint_source", func(fl validator.FieldLevel) bool {
		return models.Source(fl.Field().String()).Valid()
	})

	return v
}

// fieldErrors turns validator output into the names of the offending fields.
func fieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func validationError(msg string, fields []string) error {
	sort.Strings(fields)
	return errs.NewValidationError(msg, fields...)
}
