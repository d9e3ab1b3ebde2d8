// Package jsonapi carries the JSON:API document shapes the resource endpoints
// speak, plus request decoding with struct validation.
package jsonapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const ContentType = "application/vnd.api+json"

// MaxBodyBytes bounds request document size.
const MaxBodyBytes = 1 << 20

var validate = validator.New()

// Identifier names one resource by type and id.
type Identifier struct {
	Type string `json:"type" validate:"required"`
	ID   string `json:"id" validate:"required"`
}

// Relationship holds either a to-one or a to-many linkage under "data".
type Relationship struct {
	Data any `json:"data"`
}

// ToOne builds a single-resource relationship.
func ToOne(typ, id string) Relationship {
	return Relationship{Data: Identifier{Type: typ, ID: id}}
}

// ToMany builds a resource-collection relationship.
func ToMany(typ string, ids []string) Relationship {
	data := make([]Identifier, len(ids))
	for i, id := range ids {
		data[i] = Identifier{Type: typ, ID: id}
	}
	return Relationship{Data: data}
}

// Resource is one JSON:API resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         map[string]string       `json:"links,omitempty"`
}

// Document wraps a single primary resource.
type Document struct {
	Data Resource `json:"data"`
}

// CollectionDocument wraps a list of primary resources.
type CollectionDocument struct {
	Data []Resource `json:"data"`
}

// IdentifierDocument is the body of a relationship mutation: a bare list of
// resource identifiers.
type IdentifierDocument struct {
	Data []Identifier `json:"data" validate:"required,min=1,dive"`
}

// IDs returns the identifier ids in document order.
func (d IdentifierDocument) IDs() []string {
	ids := make([]string, len(d.Data))
	for i, identifier := range d.Data {
		ids[i] = identifier.ID
	}
	return ids
}

// Decode reads a request document into dst and validates it. Returns an error
// suitable for a 400 response.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("malformed document: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid document: %s", invalid[0].Namespace())
		}
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}

// Write renders a response document.
func Write(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}
