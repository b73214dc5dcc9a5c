package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/shared/apperror"
)

// response is the uniform envelope every endpoint answers with.
type response struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	User          *model.User `json:"user,omitempty"`
	Auth          *bool       `json:"auth,omitempty"`
	UserID        string      `json:"userId,omitempty"`
	HasNoPassword *bool       `json:"hasNoPassword,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError is the single boundary translator: status-annotated errors are
// passed through verbatim, validation failures become a 422 with the joined
// translated messages, everything else is a 500.
func respondError(w http.ResponseWriter, logger *zerolog.Logger, trans ut.Translator, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{Success: false, Message: appErr.Message})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, fieldErr.Translate(trans))
		}

		writeJSON(w, http.StatusUnprocessableEntity, response{
			Success: false,
			Message: strings.Join(messages, ", "),
		})
		return
	}

	logger.Error().Err(err).Msg("unhandled error")
	writeJSON(w, http.StatusInternalServerError, response{
		Success: false,
		Message: "Something went wrong!",
	})
}

func boolPtr(v bool) *bool {
	return &v
}
