package customer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Existence is the tri-state answer to "is this shopper an existing customer of the store".
type Existence int8

const (
	// Unknown means no identity was supplied or the lookup could not be performed.
	Unknown Existence = iota
	// New means the lookup found no matching customer.
	New
	// Existing means the lookup found a matching customer.
	Existing
)

// FromBool maps a lookup answer onto Existence.
func FromBool(exists bool) Existence {
	if exists {
		return Existing
	}
	return New
}

// Known reports whether the existence has been determined.
func (e Existence) Known() bool { return e == New || e == Existing }

// Bool returns nil for Unknown and the answer otherwise.
func (e Existence) Bool() *bool {
	if !e.Known() {
		return nil
	}
	v := e == Existing
	return &v
}

func (e Existence) String() string {
	switch e {
	case New:
		return "new"
	case Existing:
		return "existing"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Existence as true, false or null.
func (e Existence) MarshalJSON() ([]byte, error) {
	if b := e.Bool(); b != nil {
		return json.Marshal(*b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes true, false or null.
func (e *Existence) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*e = Existing
	case "false":
		*e = New
	case "null", "":
		*e = Unknown
	default:
		return fmt.Errorf("customer: invalid existence %s", data)
	}
	return nil
}

// Identity carries the contact details used for the lookup.
type Identity struct {
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
}

// Normalized trims both fields and lower-cases the email.
func (i Identity) Normalized() Identity {
	return Identity{
		Email:        strings.ToLower(strings.TrimSpace(i.Email)),
		MobileNumber: strings.TrimSpace(i.MobileNumber),
	}
}

// Empty reports whether no contact detail was supplied.
func (i Identity) Empty() bool {
	n := i.Normalized()
	return n.Email == "" && n.MobileNumber == ""
}
