package domain

import (
	"net/mail"
	"strings"
	"time"
)

// PropertyType describes the member's dwelling.
type PropertyType string

const (
	PropertyCondo     PropertyType = "condo"
	PropertyHouse     PropertyType = "house"
	PropertyTownhouse PropertyType = "townhouse"
	PropertyVilla     PropertyType = "villa"
)

// DefaultPropertyType is used when registration omits the field.
const DefaultPropertyType = PropertyCondo

// ParsePropertyType normalises s. An empty string yields the default.
func ParsePropertyType(s string) (PropertyType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPropertyType, true
	}
	switch p := PropertyType(s); p {
	case PropertyCondo, PropertyHouse, PropertyTownhouse, PropertyVilla:
		return p, true
	default:
		return "", false
	}
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string // lower-cased, unique
	PasswordHash string // argon2 encoded
	Phone        string
	Address      string
	UnitNumber   string
	PropertyType PropertyType
	Role         Role
	Verified     bool
	MFAEnabled   *time.Time // Timestamp when MFA was enabled (nullable)
	MFASecret    *string    // TOTP secret (nullable, base32 encoded)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins the first and last name for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasMFA reports whether a verified TOTP factor is attached.
func (u User) HasMFA() bool {
	return u.MFAEnabled != nil && u.MFASecret != nil && *u.MFASecret != ""
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the fields every stored user must carry.
func (u User) Validate() error {
	v := NewValidationError()
	if u.ID == "" {
		v.Add("id", "required")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		v.Add("first_name", "required")
	}
	if strings.TrimSpace(u.LastName) == "" {
		v.Add("last_name", "required")
	}
	validateEmail(v, u.Email)
	if strings.TrimSpace(u.Address) == "" {
		v.Add("address", "required")
	}
	if u.PasswordHash == "" {
		v.Add("password", "required")
	}
	if _, ok := ParsePropertyType(string(u.PropertyType)); !ok {
		v.Add("property_type", "must be one of condo, house, townhouse, villa")
	}
	if !u.Role.Valid() {
		v.Add("role", "unknown role")
	}
	return v.OrNil()
}

func validateEmail(v *ValidationError, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		v.Add("email", "required")
	case len(email) > 254:
		v.Add("email", "too long (max 254)")
	default:
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			v.Add("email", "must be a valid email address")
		}
	}
}

// ValidatePassword applies the password policy to a plaintext candidate.
func ValidatePassword(v *ValidationError, field, pw string) {
	switch {
	case pw == "":
		v.Add(field, "required")
	case len(pw) < 6:
		v.Add(field, "too short (min 6)")
	case len(pw) > 128:
		v.Add(field, "too long (max 128)")
	}
}
