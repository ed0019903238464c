package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/vollmed/internal/models"
)

const (
	ValidationErrorType = "validation_failed"
	DecodingErrorType   = "decoding_failed"
	ServiceErrorType    = "service_error"
)

// Requests here are small credentials payloads
const maxBodyBytes = 1 << 16

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Body of successful login
type TokenResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, error string, code int) {
	writeJSON(w, code, ErrorResponse{Error: ServiceErrorType, Message: error})
}

// Unauthorized challenges client for a bearer token
// Body is the same whatever the reason was, so it tells nothing about the presented token
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	ServiceError(w, "Unauthorized", http.StatusUnauthorized)
}

// Token hands issued token to client in the body and in the 'Authorization' header
// Responses with tokens must never be cached
func Token(w http.ResponseWriter, token models.Token) {
	h := w.Header()
	h.Set("Authorization", "Bearer "+token.Value)
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")

	writeJSON(w, http.StatusOK, TokenResponse{
		Token:     token.Value,
		Type:      "Bearer",
		ExpiresAt: token.ExpiresAt,
	})
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &sizeErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   DecodingErrorType,
			Message: fmt.Sprintf("Request body is larger than %d bytes", sizeErr.Limit),
		})
	case errors.As(err, &typeErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   DecodingErrorType,
			Message: fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field),
		})
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   DecodingErrorType,
			Message: fmt.Sprintf("Failed to parse JSON: %s", err.Error()),
		})
	}
}

// Render ValidationErrors
// Submitted values are never echoed back, fields may hold secrets
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fieldMessage(fe)
	}

	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   ValidationErrorType,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Value is too short (minimum %s)", fe.Param())
	case "max":
		return fmt.Sprintf("Value is too long (maximum %s)", fe.Param())
	default:
		return "Invalid value"
	}
}

// BindAndValidate decodes bounded JSON request body into type T and validates it using struct tags.
// On failure the error response is already written.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		DecodeError(w, err)
		return value, err
	}

	err := validate.Struct(value)
	var errs validator.ValidationErrors
	switch {
	case err == nil:
		return value, nil
	case errors.As(err, &errs):
		ValidationErrors(w, errs)
	default:
		ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}

	return value, err
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
