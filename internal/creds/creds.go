package creds

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

const docsURL = "https://developer.x.com/"

// MissingError is returned when required auth material is absent from the
// resolved credentials. Vars names the environment variables the caller is
// expected to set.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf(
		"missing credentials: set %s in the environment or .env. See .env.example and %s",
		strings.Join(e.Vars, ", "),
		docsURL,
	)
}

// environment is the raw variable surface we accept. Each credential has a
// preferred X_* name and a legacy alias; FromEnv collapses them with
// first-non-empty precedence.
type environment struct {
	XBearerToken string `env:"X_BEARER_TOKEN"`
	BearerToken  string `env:"BEARER_TOKEN"`

	XAPIKey       string `env:"X_API_KEY"`
	TwitterAPIKey string `env:"TWITTER_API_KEY"`

	XAPISecret       string `env:"X_API_SECRET"`
	TwitterAPISecret string `env:"TWITTER_API_SECRET"`

	XAccessToken       string `env:"X_ACCESS_TOKEN"`
	TwitterAccessToken string `env:"TWITTER_ACCESS_TOKEN"`

	XAccessTokenSecret       string `env:"X_ACCESS_TOKEN_SECRET"`
	TwitterAccessTokenSecret string `env:"TWITTER_ACCESS_TOKEN_SECRET"`
}

// Credentials holds the resolved auth material for both schemes. Every field
// is optional at this level; the scheme accessors enforce what each call
// actually needs, so a read-only invocation never requires write keys.
type Credentials struct {
	BearerToken string

	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// OAuth1Keys is the full set of user-context keys required to sign write
// requests
type OAuth1Keys struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// FromEnv resolves credentials from the process environment. It is expected
// to run once at startup, after any .env file has been loaded.
func FromEnv() (Credentials, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return Credentials{}, fmt.Errorf("unable to parse environment: %w", err)
	}

	return Credentials{
		BearerToken:       firstNonEmpty(e.XBearerToken, e.BearerToken),
		ConsumerKey:       firstNonEmpty(e.XAPIKey, e.TwitterAPIKey),
		ConsumerSecret:    firstNonEmpty(e.XAPISecret, e.TwitterAPISecret),
		AccessToken:       firstNonEmpty(e.XAccessToken, e.TwitterAccessToken),
		AccessTokenSecret: firstNonEmpty(e.XAccessTokenSecret, e.TwitterAccessTokenSecret),
	}, nil
}

// Bearer returns the read token, or a MissingError naming the accepted
// variables.
func (c Credentials) Bearer() (string, error) {
	if c.BearerToken == "" {
		return "", &MissingError{Vars: []string{"X_BEARER_TOKEN", "BEARER_TOKEN"}}
	}

	return c.BearerToken, nil
}

// OAuth1 returns the four write keys. All four must be present; partial
// credentials are treated as entirely absent and no partial-auth attempt is
// made.
func (c Credentials) OAuth1() (OAuth1Keys, error) {
	var missing []string

	for _, tc := range []struct {
		val string
		v   string
	}{
		{val: c.ConsumerKey, v: "X_API_KEY"},
		{val: c.ConsumerSecret, v: "X_API_SECRET"},
		{val: c.AccessToken, v: "X_ACCESS_TOKEN"},
		{val: c.AccessTokenSecret, v: "X_ACCESS_TOKEN_SECRET"},
	} {
		if tc.val == "" {
			missing = append(missing, tc.v)
		}
	}

	if len(missing) > 0 {
		return OAuth1Keys{}, &MissingError{Vars: missing}
	}

	return OAuth1Keys{
		ConsumerKey:       c.ConsumerKey,
		ConsumerSecret:    c.ConsumerSecret,
		AccessToken:       c.AccessToken,
		AccessTokenSecret: c.AccessTokenSecret,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for i := range vals {
		if vals[i] != "" {
			return vals[i]
		}
	}

	return ""
}
