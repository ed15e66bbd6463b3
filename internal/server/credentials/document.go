// Package credentials manages the remote YAML credentials document: user
// records with password hashes and TOTP secrets, plus the session cookie
// settings. The document is read once at startup and rewritten wholesale
// when a user's OTP secret is first provisioned.
package credentials

import "gopkg.in/yaml.v3"

// User is a single credential record keyed by username.
// Password holds a bcrypt hash, never plaintext.
// OTPSecret is empty until the user's first login.
type User struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role,omitempty"`
	OTPSecret string `yaml:"otp_secret,omitempty"`
}

// Cookie configures the session cookie issued after login.
type Cookie struct {
	Name       string `yaml:"name"`
	Key        string `yaml:"key"`
	ExpiryDays int    `yaml:"expiry_days"`
}

// Document is the full credentials file shape:
//
//	credentials:
//	  usernames:
//	    alice: {name: ..., email: ..., password: ..., role: ..., otp_secret: ...}
//	cookie:
//	  name: ...
//	  key: ...
//	  expiry_days: ...
type Document struct {
	Credentials struct {
		Usernames map[string]*User `yaml:"usernames"`
	} `yaml:"credentials"`
	Cookie Cookie `yaml:"cookie"`
}

func decodeDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Credentials.Usernames == nil {
		doc.Credentials.Usernames = map[string]*User{}
	}
	return doc, nil
}

func encodeDocument(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
