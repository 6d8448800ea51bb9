package element

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParse is matched by every error returned from BuildFromJSON.
var ErrParse = errors.New("element: parse error")

// ParseError reports why an entity could not be decoded.
type ParseError struct {
	// ID is the external form of the entity's id when it was readable.
	ID  string
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	msg := "parse entity"
	if e.ID != "" {
		msg += " " + e.ID
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// entityJSON is the persisted form of an entity.
type entityJSON struct {
	ID    ID              `json:"id"`
	Model json.RawMessage `json:"model"`
}

type containerJSON struct {
	Children []json.RawMessage `json:"children"`
}

// BuildDefault returns a new empty entity of kind k owned by owner: a zero
// sized rectangle at the origin, an empty polygon, path or text, or an empty
// container, with default styles and the standard capabilities.
func BuildDefault(k Kind, owner string) (*Entity, error) {
	m := newModel(k)
	if m == nil {
		return nil, fmt.Errorf("build %s: %w", k, errUnknownKind)
	}
	e := &Entity{ID: Generate(owner, k), Model: m}
	installStandard(e)
	return e, nil
}

var errUnknownKind = errors.New("unknown element kind")

// MustBuildDefault is like BuildDefault but panics on an unknown kind.
func MustBuildDefault(k Kind, owner string) *Entity {
	e, err := BuildDefault(k, owner)
	if err != nil {
		panic(err)
	}
	return e
}

// BuildFromJSON decodes an entity in its persisted form and installs the
// standard capabilities. The model must match the kind declared in the id
// exactly; unknown fields are rejected. Containers are decoded recursively.
func BuildFromJSON(data []byte) (*Entity, error) {
	var raw entityJSON
	if err := decodeStrict(data, &raw); err != nil {
		return nil, &ParseError{Msg: "invalid entity", Err: err}
	}
	if raw.ID.Kind == 0 {
		return nil, &ParseError{Msg: "missing element_type"}
	}
	if len(raw.Model) == 0 || bytes.Equal(raw.Model, []byte("null")) {
		return nil, &ParseError{ID: raw.ID.String(), Msg: "missing model"}
	}

	var m Model
	if raw.ID.Kind == KindContainer {
		var cj containerJSON
		if err := decodeStrict(raw.Model, &cj); err != nil {
			return nil, &ParseError{ID: raw.ID.String(), Msg: "model does not match Container", Err: err}
		}
		cm := &ContainerModel{Children: make([]*Entity, 0, len(cj.Children))}
		for i, childData := range cj.Children {
			child, err := BuildFromJSON(childData)
			if err != nil {
				return nil, &ParseError{ID: raw.ID.String(), Msg: fmt.Sprintf("child %d", i), Err: err}
			}
			cm.Children = append(cm.Children, child)
		}
		m = cm
	} else {
		m = newModel(raw.ID.Kind)
		if m == nil {
			return nil, &ParseError{ID: raw.ID.String(), Msg: "unknown element kind"}
		}
		if err := decodeStrict(raw.Model, m); err != nil {
			return nil, &ParseError{ID: raw.ID.String(), Msg: "model does not match " + raw.ID.Kind.String(), Err: err}
		}
	}

	Observe(raw.ID)
	e := &Entity{ID: raw.ID, Model: m}
	installStandard(e)
	return e, nil
}

// MarshalEntity encodes e in the form BuildFromJSON reads.
func MarshalEntity(e *Entity) ([]byte, error) {
	return json.Marshal(e)
}

// MarshalJSON implements json.Marshaler.
func (e *Entity) MarshalJSON() ([]byte, error) {
	if e.Model == nil {
		return nil, fmt.Errorf("marshal entity %s: no model", e.ID)
	}
	model, err := json.Marshal(e.Model)
	if err != nil {
		return nil, fmt.Errorf("marshal entity %s: %w", e.ID, err)
	}
	return json.Marshal(entityJSON{ID: e.ID, Model: model})
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after entity")
	}
	return nil
}
