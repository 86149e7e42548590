package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators teaches gin's validator the shop's binding tags and
// makes field errors use JSON names. Safe to call more than once.
//
//	category   a catalog category, any case
//	notblank   a string that is not only whitespace
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(requestFieldName)
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, err := catalog.ParseCategory(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// requestFieldName prefers the json key and falls back to the form key
func requestFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

// HandleValidationError writes a 400 listing every rejected field
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		c.GetString(RequestIDKey),
		details,
	))
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"notblank": "Must not be blank",
	"uuid":     "Invalid UUID format",
	"dive":     "Contains an invalid entry",
}

var boundMessages = map[string]string{
	"len":   "Must be exactly %s characters",
	"oneof": "Must be one of: %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be less than or equal to %s",
	"gt":    "Must be greater than %s",
	"lt":    "Must be less than %s",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := boundMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}

	switch fe.Tag() {
	case "min", "max":
		word := "least"
		if fe.Tag() == "max" {
			word = "most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at %s %s characters", word, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must have at %s %s entries", word, fe.Param())
		}
		return fmt.Sprintf("Must be at %s %s", word, fe.Param())
	case "category":
		names := make([]string, 0, len(catalog.AllCategories()))
		for _, c := range catalog.AllCategories() {
			names = append(names, string(c))
		}
		return "Must be one of: " + strings.Join(names, ", ")
	}
	return "Invalid value"
}
