package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true,
	"Thursday": true, "Friday": true, "Saturday": true,
}

// RegisterValidators adds isodate, clock and weekday tags to v.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("isodate", layoutValidator("2006-01-02")); err != nil {
		return err
	}
	if err := v.RegisterValidation("clock", layoutValidator("15:04")); err != nil {
		return err
	}
	return v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return weekdays[fl.Field().String()]
	})
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(layout) {
			return false
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}
