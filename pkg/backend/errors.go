package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingBaseURL is a configuration error, calls are never attempted.
	ErrMissingBaseURL = errors.New("backend base URL is not defined")
	// ErrUnavailable marks a read that did not produce data.
	ErrUnavailable = errors.New("resource unavailable")
	// ErrSessionExpired is returned when the session could not be refreshed.
	ErrSessionExpired = errors.New("session expired, please login again")
	// ErrUnauthorized matches a 401 that survived a successful refresh.
	ErrUnauthorized = errors.New("unauthorized")
)

type APIError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (err *APIError) Error() string {
	if err.Detail != "" {
		return err.Detail
	}

	return fmt.Sprintf("API error %d", err.Status)
}

func (err *APIError) Is(target error) bool {
	return target == ErrUnauthorized && err.Status == http.StatusUnauthorized
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type validationDetail struct {
	Msg string `json:"msg"`
}

// detailFromBody extracts the server supplied message from an error response.
// FastAPI style `detail` wins over the envelope `error` field.
func detailFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed errorBody
	if err := readJSON(body, &parsed); err != nil {
		return ""
	}

	if len(parsed.Detail) > 0 {
		var detail string
		if err := readJSON(parsed.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		var details []validationDetail
		if err := readJSON(parsed.Detail, &details); err == nil {
			msgs := []string{}
			for _, d := range details {
				if d.Msg != "" {
					msgs = append(msgs, d.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	return parsed.Error
}
