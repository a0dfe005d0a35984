package portalsdk

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every non-2xx portal answer.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "validation_error", "conflict")
	Error string `json:"error"`

	// ErrorDescription is a human readable explanation
	ErrorDescription string `json:"error_description,omitempty"`

	// Details maps request fields to their validation messages
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists the readiness checks that ran.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the public key set used to verify session tokens.
type JWKSResponse = jwtx.JWKS

// ============================================================================
// Session Types
// ============================================================================

// RegisterRequest is the self-service sign-up form.
type RegisterRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address"`
	UnitNumber   string `json:"unit_number,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
}

// LoginRequest exchanges credentials for a session token. OTP is required
// once the member has enabled TOTP.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// SessionResponse carries a freshly issued bearer token.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is a member account as seen through the API. It never carries
// credentials.
type UserResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address"`
	UnitNumber   string    `json:"unit_number,omitempty"`
	PropertyType string    `json:"property_type"`
	Role         string    `json:"role"`
	RoleLabel    string    `json:"role_label"`
	Verified     bool      `json:"verified"`
	MFAEnabled   bool      `json:"mfa_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateProfileRequest edits the caller's own profile. Nil fields are left
// unchanged; NewPassword requires CurrentPassword.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	UnitNumber      *string `json:"unit_number,omitempty"`
	PropertyType    *string `json:"property_type,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
}

// CreateUserRequest is the administrator's account form. An empty Password
// makes the server generate one.
type CreateUserRequest struct {
	RegisterRequest
	Role     string `json:"role,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// CreateUserResponse returns the new account and, when the server generated
// it, the one-time password.
type CreateUserResponse struct {
	User              UserResponse `json:"user"`
	GeneratedPassword string       `json:"generated_password,omitempty"`
}

// AdminUpdateUserRequest edits any account. Nil fields are left unchanged.
type AdminUpdateUserRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	UnitNumber   *string `json:"unit_number,omitempty"`
	PropertyType *string `json:"property_type,omitempty"`
	Role         *string `json:"role,omitempty"`
	Verified     *bool   `json:"verified,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// ============================================================================
// MFA Types
// ============================================================================

// TOTPEnrollResponse holds the shared secret to load into an authenticator.
type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// TOTPCodeRequest carries a six digit authenticator code.
type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Payment Types
// ============================================================================

// Amount is a decimal money value as written by the client. It decodes from a
// JSON string or any other JSON value, keeping the literal text, so a bad
// amount is reported by the server's validation rather than by the decoder.
type Amount string

// MarshalJSON writes numeric text as a JSON number and anything else as a
// string.
func (a Amount) MarshalJSON() ([]byte, error) {
	s := string(a)
	if s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null":
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(b)
	}
	return nil
}

// SubmitPaymentRequest files a payment claim. Amount may be sent as a JSON
// number or a decimal string. PaymentMethod and PaymentPlan are accepted as
// older spellings of Method and Category.
type SubmitPaymentRequest struct {
	Amount        Amount `json:"amount" swaggertype:"string" example:"500.00"`
	Method        string `json:"method,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Category      string `json:"category,omitempty"`
	PaymentPlan   string `json:"payment_plan,omitempty"`
	DueDate       string `json:"due_date"`
}

// PaymentOwner identifies the submitting member on administrator listings.
type PaymentOwner struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// PaymentResponse is a payment record. Money fields are decimal strings with
// two fractional digits.
type PaymentResponse struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Amount          string        `json:"amount"`
	Method          string        `json:"method"`
	Category        string        `json:"category"`
	DueDate         string        `json:"due_date"`
	Status          string        `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	LateFee         string        `json:"late_fee"`
	Penalty         string        `json:"penalty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Owner           *PaymentOwner `json:"owner,omitempty"`
}

// TransitionPaymentRequest adjudicates a pending payment. Status is
// "completed" or "failed"; a reason is only accepted with "failed".
type TransitionPaymentRequest struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// CategoryResponse is one entry of the payment category catalogue.
type CategoryResponse struct {
	Category        string `json:"category"`
	Label           string `json:"label"`
	SuggestedAmount string `json:"suggested_amount,omitempty"`
}

// ============================================================================
// Announcement Types
// ============================================================================

// AnnouncementRequest creates or edits an announcement. On edit, empty
// fields keep their stored value.
type AnnouncementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority,omitempty"`
}

// AnnouncementResponse is a published announcement.
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
