package types

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// OutcomeKind classifies a server response.
type OutcomeKind int

const (
	OutcomeUnclassified OutcomeKind = iota
	OutcomeSuccess
	OutcomeValidationError
	OutcomeAuthExpired
	OutcomeForbidden
	OutcomeNotFound
	OutcomeServerError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeAuthExpired:
		return "auth_expired"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeServerError:
		return "server_error"
	default:
		return "unclassified"
	}
}

// Outcome is produced once per call and handed back to the caller.
type Outcome struct {
	Kind    OutcomeKind
	Status  int
	Payload Payload
}

// Payload is the raw JSON body of a response.
type Payload json.RawMessage

// MarshalJSON emits the payload verbatim.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// Get returns the value at a gjson path.
func (p Payload) Get(path string) gjson.Result { return gjson.GetBytes(p, path) }

// Success reports the envelope's success flag.
func (p Payload) Success() bool { return p.Get("success").Bool() }

// Message returns the envelope's message, if any.
func (p Payload) Message() string { return p.Get("message").String() }

// Decode unmarshals the value at path into v. An empty path decodes the whole
// payload.
func (p Payload) Decode(path string, v any) error {
	if path == "" {
		return json.Unmarshal(p, v)
	}
	return json.Unmarshal([]byte(p.Get(path).Raw), v)
}
