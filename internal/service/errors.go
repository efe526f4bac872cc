package service

import "errors"

// Kind classifies service failures so the transport layer can map them onto status codes
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindUnauthorized
	KindVerification
	KindNotFound
	KindInvalidOrExpired
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindVerification:
		return "verification"
	case KindNotFound:
		return "not_found"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	}
	return "internal"
}

// Error is an expected failure with a user facing message
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrAccountExists         = newError(KindConflict, "Account already exists")
	ErrInvalidEmail          = newError(KindUnauthorized, "Invalid email")
	ErrEmailNotConfirmed     = newError(KindUnauthorized, "Email not confirmed")
	ErrInvalidPassword       = newError(KindUnauthorized, "Invalid password")
	ErrInvalidRefreshToken   = newError(KindUnauthorized, "Invalid refresh token")
	ErrInvalidCredentials    = newError(KindUnauthorized, "Could not validate credentials")
	ErrVerification          = newError(KindVerification, "Verification error")
	ErrInvalidEmailToken     = newError(KindVerification, "Invalid token for email verification")
	ErrEmailNotFound         = newError(KindNotFound, "Email not found")
	ErrUserNotFound          = newError(KindNotFound, "User not found")
	ErrInvalidOrExpiredToken = newError(KindInvalidOrExpired, "Invalid or expired token")
	ErrContactNotFound       = newError(KindNotFound, "Contact not found")
	ErrContactExists         = newError(KindConflict, "Contact with this email or phone number already exists")
	ErrInvalidFileFormat     = newError(KindValidation, "invalid file format. only .jpg, .jpeg, .png, .gif, .webp are allowed")
	ErrFileSizeExceeded      = newError(KindValidation, "file size exceeds limit")
	ErrAvatarUpload          = newError(KindUpstream, "Avatar upload failed")
)

// KindOf returns the Kind carried by err, or KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
