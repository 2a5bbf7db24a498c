package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// EntitiesParser reads document-extraction output: either a bare array of
// entities or an object carrying them under "entities" (optionally nested in
// "document").
type EntitiesParser struct{}

// Format returns the parser name.
func (p *EntitiesParser) Format() string { return "entities" }

type entitiesPayload struct {
	Entities []model.RawEntity `json:"entities"`
	Document *struct {
		Entities []model.RawEntity `json:"entities"`
	} `json:"document"`
}

// Parse decodes the payload. The number format is not needed because amounts
// are already text.
func (p *EntitiesParser) Parse(r io.Reader, _ money.NumberFormat) ([]model.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading entities: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty entities payload")
	}

	var raw []model.RawEntity
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decoding entities: %w", err)
		}
		return model.TypedAll(raw), nil
	}

	var payload entitiesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding entities: %w", err)
	}
	raw = payload.Entities
	if raw == nil && payload.Document != nil {
		raw = payload.Document.Entities
	}
	return model.TypedAll(raw), nil
}
