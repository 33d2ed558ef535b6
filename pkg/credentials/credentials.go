// Package credentials stores the X (Twitter) API credentials locally and
// syncs them to the backend.
package credentials

import (
	"github.com/shawkym/moragents-tui/pkg/client"
)

// Field keys used in local storage.
const (
	FieldAPIKey            = "apiKey"
	FieldAPISecret         = "apiSecret"
	FieldAccessToken       = "accessToken"
	FieldAccessTokenSecret = "accessTokenSecret"
	FieldBearerToken       = "bearerToken"
)

// NotSet is shown for empty credentials.
const NotSet = "Not set"

const maskPrefix = "•••••"

// Field describes one credential in display order.
type Field struct {
	Key   string
	Label string
}

// Fields lists the credentials in the order the settings panel shows them.
var Fields = []Field{
	{Key: FieldAPIKey, Label: "API Key"},
	{Key: FieldAPISecret, Label: "API Secret"},
	{Key: FieldAccessToken, Label: "Access Token"},
	{Key: FieldAccessTokenSecret, Label: "Access Token Secret"},
	{Key: FieldBearerToken, Label: "Bearer Token"},
}

// Credentials holds the five X API credentials.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string
}

// Get returns the value stored under a field key.
func (c Credentials) Get(key string) string {
	switch key {
	case FieldAPIKey:
		return c.APIKey
	case FieldAPISecret:
		return c.APISecret
	case FieldAccessToken:
		return c.AccessToken
	case FieldAccessTokenSecret:
		return c.AccessTokenSecret
	case FieldBearerToken:
		return c.BearerToken
	}
	return ""
}

// Set updates the value stored under a field key. Unknown keys are ignored.
func (c *Credentials) Set(key, value string) {
	switch key {
	case FieldAPIKey:
		c.APIKey = value
	case FieldAPISecret:
		c.APISecret = value
	case FieldAccessToken:
		c.AccessToken = value
	case FieldAccessTokenSecret:
		c.AccessTokenSecret = value
	case FieldBearerToken:
		c.BearerToken = value
	}
}

// ToWire maps the credentials to the backend's snake_case payload.
func (c Credentials) ToWire() client.XAPIKeys {
	return client.XAPIKeys{
		APIKey:            c.APIKey,
		APISecret:         c.APISecret,
		AccessToken:       c.AccessToken,
		AccessTokenSecret: c.AccessTokenSecret,
		BearerToken:       c.BearerToken,
	}
}

// Mask hides all but the last five characters of a secret. Values of five
// characters or fewer are returned unchanged.
func Mask(s string) string {
	r := []rune(s)
	if len(r) <= 5 {
		return s
	}
	return maskPrefix + string(r[len(r)-5:])
}

// Display returns the masked value, or NotSet for empty values.
func Display(s string) string {
	if s == "" {
		return NotSet
	}
	return Mask(s)
}
