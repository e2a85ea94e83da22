package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator は echo.Validator として登録する（c.Validate で使う）
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//タグ1件にカンマは入れられない（保存形式がカンマ区切りのため）
	_ = v.RegisterValidation("single_tag", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.TrimSpace(s) != "" && !strings.Contains(s, ",")
	})

	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i interface{}) error {
	return r.v.Struct(i)
}

// FirstField は最初にエラーになった項目名（レスポンス用）
func FirstField(err error) string {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		return ve[0].Field()
	}
	return ""
}
