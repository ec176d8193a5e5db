// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"togather/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes  = 72
	maxNicknameLength = 50
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return ValidateNickname(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct checks the `validate` tags of v and reports the first violation as
// a BadRequest AppError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return models.NewBadRequestError(describe(fieldErrs[0]))
	}
	return models.NewBadRequestError("잘못된 요청입니다.")
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s 값을 입력해 주세요.", field)
	case "email":
		return "이메일 형식이 올바르지 않습니다."
	case "password":
		return "비밀번호는 8자 이상 72바이트 이하로 입력해 주세요."
	case "nickname":
		return "닉네임은 1자 이상 50자 이하로 입력해 주세요."
	case "max":
		return fmt.Sprintf("%s 값은 %s자 이하로 입력해 주세요.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s 값은 %s 이상이어야 합니다.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s 값은 %s 중 하나여야 합니다.", field, fe.Param())
	}
	return fmt.Sprintf("%s 값이 올바르지 않습니다.", field)
}

// ValidatePassword checks the length bounds of a new password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", maxPasswordBytes)
	}
	return nil
}

// ValidateNickname checks that a nickname is printable and within bounds.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return fmt.Errorf("nickname is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNicknameLength {
		return fmt.Errorf("nickname must not exceed %d characters", maxNicknameLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return fmt.Errorf("nickname cannot contain control characters")
		}
	}
	return nil
}
