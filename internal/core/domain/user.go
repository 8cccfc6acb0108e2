package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PhoneNumber is the parsed, canonical form of the raw phone number
// submitted at registration.
type PhoneNumber struct {
	ISOCode             string `json:"isoCode" bson:"isoCode"`
	CountryCode         string `json:"countryCode" bson:"countryCode"`
	InternationalNumber string `json:"internationalNumber" bson:"internationalNumber"`
}

// AccountConfirmation tracks whether the account's email address has been
// verified. Token and Code are minted at registration and stay on the record
// after confirmation, but are inert once Status is true.
type AccountConfirmation struct {
	Status    bool       `json:"status" bson:"status"`
	Token     string     `json:"token" bson:"token"`
	Code      string     `json:"code" bson:"code"`
	Timestamp *time.Time `json:"timestamp" bson:"timestamp"`
}

// PasswordReset holds the state of an in-flight password recovery. Token and
// Expiry are only set while a reset window is open; Expiry is epoch
// milliseconds.
type PasswordReset struct {
	Token       *string    `json:"token" bson:"token"`
	Expiry      *int64     `json:"expiry" bson:"expiry"`
	LastResetAt *time.Time `json:"lastResetAt" bson:"lastResetAt"`
}

// User models an account in the identity store. PasswordHash is excluded
// from default repository lookups and must be requested explicitly.
type User struct {
	ID                  string              `json:"id" bson:"-"`
	Name                string              `json:"name" bson:"name"`
	EmailAddress        string              `json:"emailAddress" bson:"emailAddress"`
	PhoneNumber         PhoneNumber         `json:"phoneNumber" bson:"phoneNumber"`
	Timezone            string              `json:"timezone" bson:"timezone"`
	PasswordHash        string              `json:"-" bson:"password"`
	Role                string              `json:"role" bson:"role"`
	AccountConfirmation AccountConfirmation `json:"accountConfirmation" bson:"accountConfirmation"`
	PasswordReset       PasswordReset       `json:"passwordReset" bson:"passwordReset"`
	LastLoginAt         *time.Time          `json:"lastLoginAt" bson:"lastLoginAt"`
	Consent             bool                `json:"consent" bson:"consent"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Confirmed reports whether the account's email has been verified. Login and
// password recovery are gated on this.
func (u *User) Confirmed() bool {
	return u.AccountConfirmation.Status
}
