package domain

// TOTPEnrollment is handed to a member who starts enrolling an authenticator.
// The factor is not active until a first code is verified.
type TOTPEnrollment struct {
	Secret  string // Base32 encoded secret for TOTP
	URL     string // otpauth:// URL for QR code generation
	Issuer  string
	Account string // the member's email
}
