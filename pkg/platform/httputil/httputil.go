package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "votedesk/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into {"error", "error_description"}.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{"error": string(domainErr.Code)}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": string(dErrors.CodeInternal)})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeProviderUnavailable, dErrors.CodeNetworkUnreachable:
		return http.StatusServiceUnavailable
	case dErrors.CodeLedgerCallFailed, dErrors.CodeOffchainCallFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
