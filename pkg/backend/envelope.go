package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Error      string          `json:"error,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	PageSize    int  `json:"page_size"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	StartIndex  int  `json:"start_index"`
	EndIndex    int  `json:"end_index"`
}

type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

func parseEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if len(body) == 0 {
		return &env, nil
	}

	if err := readJSON(body, &env); err != nil {
		return nil, fmt.Errorf("invalid response envelope: %w", err)
	}

	return &env, nil
}

func (env *envelope) decode(dst any) error {
	if dst == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	return readJSON(env.Data, dst)
}

func readJSON(data []byte, dst any) error {
	return httptools.ReadJSON(bytes.NewReader(data), dst)
}
