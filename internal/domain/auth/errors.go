package auth

import "errors"

// ErrEmailExists is returned by repositories on a duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// Error codes surfaced by the account service.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeEmailExists        = "email_exists"
	CodeUserNotFound       = "user_not_found"
	codeAuthError          = "auth_error"
)
