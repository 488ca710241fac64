package domain

import (
	"encoding/json"
	"strings"
)

// InitData is the signed session string handed to the mini-app by the host
// platform. It is forwarded to the verification endpoint untouched and never
// parsed on this side.
type InitData string

// Empty reports whether no init data was supplied.
func (d InitData) Empty() bool {
	return strings.TrimSpace(string(d)) == ""
}

// UnsafeUserView is the client-visible mirror of the user carried inside the
// init data. Nothing here has been verified: it is only good for optimistic
// display and must never be used as proof of identity.
type UnsafeUserView struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Username        string `json:"username,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`
	LanguageCode    string `json:"language_code,omitempty"`
	IsPremium       bool   `json:"is_premium,omitempty"`
	AllowsWriteToPM bool   `json:"allows_write_to_pm,omitempty"`
}

// InitDataUnsafe is the parsed, unverified form of the platform session as
// exposed by the platform SDK. Fields other than User are only ever shown in
// the raw-data panel.
type InitDataUnsafe struct {
	User       *UnsafeUserView `json:"user,omitempty"`
	QueryID    string          `json:"query_id,omitempty"`
	ChatType   string          `json:"chat_type,omitempty"`
	StartParam string          `json:"start_param,omitempty"`
	AuthDate   int64           `json:"auth_date,omitempty"`
	Hash       string          `json:"hash,omitempty"`

	// Raw is the session exactly as the platform exposed it, including fields
	// this struct does not model. It is empty when the session was built in
	// code rather than decoded.
	Raw json.RawMessage `json:"-"`
}
