package model

import "encoding/json"

// Roles.
const (
	RoleGuest = "guest"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User is a guest or a member of staff.
//
// Password only exists on records written before hashing was introduced;
// it is converted to PasswordHash at start-up and never returned.
type User struct {
	ID           ID           `json:"id"`
	HotelID      *ID          `json:"hotelId,omitempty"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Role         string       `json:"role"`
	PasswordHash string       `json:"passwordHash,omitempty"`
	Password     string       `json:"password,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
}

// Profile is the public part of a user returned by login.
type Profile struct {
	ID        ID     `json:"id"`
	HotelID   *ID    `json:"hotelId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, HotelID: u.HotelID, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

// Preferences are the comfort settings a guest stored. Values are kept as
// decoded so that whatever the client saved is what the device receives.
type Preferences struct {
	Temperature any `json:"temperature,omitempty"`
	Lighting    any `json:"lighting,omitempty"`
	Curtains    any `json:"curtains,omitempty"`
	TvVolume    any `json:"tvVolume,omitempty"`
}

// UnmarshalJSON accepts any JSON value. Anything but an object leaves
// every preference unset.
func (p *Preferences) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		*p = Preferences{}
		return nil
	}
	*p = Preferences{
		Temperature: m["temperature"],
		Lighting:    m["lighting"],
		Curtains:    m["curtains"],
		TvVolume:    m["tvVolume"],
	}
	return nil
}

// LightingValues returns brightness and color when lighting is an object.
func (p Preferences) LightingValues() (brightness, color any) {
	m, _ := p.Lighting.(map[string]any)
	return m["brightness"], m["color"]
}

// Set reports whether a preference value counts as given: absent, null,
// false, zero and the empty string do not.
func Set(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
