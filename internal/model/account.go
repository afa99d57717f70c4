package model

// Account is a registered user's credential record. The username is the map
// key in the persisted users file, so it carries no JSON tag of its own.
//
// ResetToken and TokenExpiry are either both set (a reset is pending) or
// both nil; TokenExpiry is an RFC 3339 timestamp and the token is valid only
// strictly before it.
type Account struct {
	Username     string  `json:"-"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password"`
	ResetToken   *string `json:"reset_token"`
	TokenExpiry  *string `json:"token_expiry"`
}

// Identity is the display identity returned by a successful authentication.
// It never carries the password hash.
type Identity struct {
	Username string
	Email    string
}
