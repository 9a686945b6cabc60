package rivet

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a registered type in the metadata registry.
// Components are structural (they can own HTTP endpoints); injectables are
// plain services. Unmarked types are ignored by the registry.
type Kind int

const (
	// KindNone marks a type that carries no component metadata.
	// Registering a KindNone descriptor is a no-op.
	KindNone Kind = iota

	// KindInjectable marks a plain service that participates in
	// dependency injection but contributes no routes.
	KindInjectable

	// KindComponent marks a structural component. Components have a
	// selector and may declare HTTP endpoints.
	KindComponent
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInjectable:
		return "Injectable"
	case KindComponent:
		return "Component"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsValid checks if the kind is a known value.
func (k Kind) IsValid() bool {
	return k >= KindNone && k <= KindComponent
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "None", "none":
		*k = KindNone
	case "Injectable", "injectable":
		*k = KindInjectable
	case "Component", "component":
		*k = KindComponent
	default:
		return fmt.Errorf("invalid component kind: %q", string(text))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return k.UnmarshalText([]byte(s))
}
