package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"X_BEARER_TOKEN", "BEARER_TOKEN",
	"X_API_KEY", "TWITTER_API_KEY",
	"X_API_SECRET", "TWITTER_API_SECRET",
	"X_ACCESS_TOKEN", "TWITTER_ACCESS_TOKEN",
	"X_ACCESS_TOKEN_SECRET", "TWITTER_ACCESS_TOKEN_SECRET",
}

// clearEnv blanks every accepted variable so ambient credentials cannot leak
// into a test
func clearEnv(t *testing.T) {
	t.Helper()

	for _, v := range allVars {
		t.Setenv(v, "")
	}
}

func Test_FromEnv(t *testing.T) {
	for _, tc := range []struct {
		desc string
		env  map[string]string
		chk  func(t *testing.T, c Credentials)
	}{
		{
			desc: "preferred names win over aliases",
			env: map[string]string{
				"X_BEARER_TOKEN":  "x-bearer",
				"BEARER_TOKEN":    "legacy-bearer",
				"X_API_KEY":       "x-key",
				"TWITTER_API_KEY": "legacy-key",
			},
			chk: func(t *testing.T, c Credentials) {
				assert.Equal(t, "x-bearer", c.BearerToken)
				assert.Equal(t, "x-key", c.ConsumerKey)
			},
		},
		{
			desc: "aliases are used when preferred names are unset",
			env: map[string]string{
				"BEARER_TOKEN":                "legacy-bearer",
				"TWITTER_API_KEY":             "legacy-key",
				"TWITTER_API_SECRET":          "legacy-secret",
				"TWITTER_ACCESS_TOKEN":        "legacy-token",
				"TWITTER_ACCESS_TOKEN_SECRET": "legacy-token-secret",
			},
			chk: func(t *testing.T, c Credentials) {
				assert.Equal(t, "legacy-bearer", c.BearerToken)
				assert.Equal(t, "legacy-key", c.ConsumerKey)
				assert.Equal(t, "legacy-secret", c.ConsumerSecret)
				assert.Equal(t, "legacy-token", c.AccessToken)
				assert.Equal(t, "legacy-token-secret", c.AccessTokenSecret)
			},
		},
		{
			desc: "empty environment resolves to empty credentials",
			chk: func(t *testing.T, c Credentials) {
				assert.Equal(t, Credentials{}, c)
			},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := FromEnv()
			require.NoError(t, err)

			tc.chk(t, c)
		})
	}
}

func Test_Credentials_Bearer(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		c := Credentials{BearerToken: "bearer"}

		token, err := c.Bearer()
		require.NoError(t, err)
		assert.Equal(t, "bearer", token)
	})

	t.Run("absent names both accepted variables", func(t *testing.T) {
		var c Credentials

		_, err := c.Bearer()
		require.Error(t, err)

		merr, ok := err.(*MissingError)
		require.True(t, ok)
		assert.Equal(t, []string{"X_BEARER_TOKEN", "BEARER_TOKEN"}, merr.Vars)
		assert.Contains(t, merr.Error(), "X_BEARER_TOKEN")
	})
}

func Test_Credentials_OAuth1(t *testing.T) {
	full := Credentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
	}

	t.Run("all four keys present", func(t *testing.T) {
		keys, err := full.OAuth1()
		require.NoError(t, err)

		assert.Equal(t, OAuth1Keys{
			ConsumerKey:       "ck",
			ConsumerSecret:    "cs",
			AccessToken:       "at",
			AccessTokenSecret: "ats",
		}, keys)
	})

	// any single missing key fails, even with the other three present
	for _, tc := range []struct {
		desc    string
		blank   func(c *Credentials)
		missing string
	}{
		{
			desc:    "missing consumer key",
			blank:   func(c *Credentials) { c.ConsumerKey = "" },
			missing: "X_API_KEY",
		},
		{
			desc:    "missing consumer secret",
			blank:   func(c *Credentials) { c.ConsumerSecret = "" },
			missing: "X_API_SECRET",
		},
		{
			desc:    "missing access token",
			blank:   func(c *Credentials) { c.AccessToken = "" },
			missing: "X_ACCESS_TOKEN",
		},
		{
			desc:    "missing access token secret",
			blank:   func(c *Credentials) { c.AccessTokenSecret = "" },
			missing: "X_ACCESS_TOKEN_SECRET",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			c := full
			tc.blank(&c)

			_, err := c.OAuth1()
			require.Error(t, err)

			merr, ok := err.(*MissingError)
			require.True(t, ok)
			assert.Equal(t, []string{tc.missing}, merr.Vars)
		})
	}

	t.Run("all missing lists every variable", func(t *testing.T) {
		var c Credentials

		_, err := c.OAuth1()
		require.Error(t, err)

		merr, ok := err.(*MissingError)
		require.True(t, ok)
		assert.Len(t, merr.Vars, 4)
	})
}
