package util

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate      *validator.Validate
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
}

// ValidateDTO 返回第一个未通过校验的字段，全部通过时返回 nil
func ValidateDTO(dto any) validator.FieldError {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return vErrs[0]
	}
	return nil
}

// IsValidUsername 3-50 位字母、数字或下划线
func IsValidUsername(username string) bool {
	n := RuneLen(username)
	return n >= 3 && n <= 50 && usernameRegex.MatchString(username)
}
