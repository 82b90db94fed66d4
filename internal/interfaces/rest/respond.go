// Package rest holds the response envelope and error mapping shared by
// all HTTP handlers.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ticketa/eventpay/internal/core/domain"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// WriteError maps domain errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	code := "INTERNAL_ERROR"
	message := "internal server error"

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ToHTTPStatus(err))
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

func ToHTTPStatus(err error) int {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeResourceNotFound:
		return http.StatusNotFound
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeInvalidSignature:
		return http.StatusUnauthorized
	case domain.ErrCodePaymentInProgress, domain.ErrCodeAlreadyCompleted:
		return http.StatusConflict
	case domain.ErrCodeInvalidRequest, domain.ErrCodeInvalidAmount, domain.ErrCodeInvalidTransition:
		return http.StatusBadRequest
	case domain.ErrCodeGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
