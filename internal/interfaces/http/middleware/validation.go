package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/interfaces/http/dto"
)

// SetupValidator makes gin's validator report the json name of a field, or
// its form name for query-string bindings.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(fieldName)
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
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

// FormatValidationErrors builds the ERR_VALIDATION envelope. Only field
// failures produce details; malformed JSON yields none.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with per-field details
func HandleValidationError(c *gin.Context, err error) {
	id := logger.GetRequestID(c.Request.Context())
	if id == "" {
		id = c.GetHeader(logger.RequestIDHeader)
	}
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, id))
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"uuid4":    "Invalid UUID format",
	"url":      "Invalid URL format",
	"http_url": "Invalid URL format",
	"numeric":  "Must be numeric",
	"dive":     "Invalid list element",
}

var boundPrefixes = map[string]string{
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"oneof": "Must be one of: ",
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundPrefixes[fe.Tag()]; ok {
		return prefix + fe.Param()
	}

	var bound string
	switch fe.Tag() {
	case "min":
		bound = "least"
	case "max":
		bound = "most"
	default:
		return "Invalid value"
	}
	switch fe.Kind() {
	case reflect.String:
		return "Must be at " + bound + " " + fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "Must contain at " + bound + " " + fe.Param() + " items"
	default:
		return "Must be at " + bound + " " + fe.Param()
	}
}
