// Package envvar implements the configuration surface of the service:
// environment variables, optionally loaded from a dotenv file, with secure
// values resolved through a secret provider.
package envvar

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// defaults are the documented fallback values used when a variable is unset.
var defaults = map[string]string{
	"DB_HOST":      "localhost",
	"DB_PORT":      "3306",
	"DB_USER":      "root",
	"DB_PASSWORD":  "",
	"DB_NAME":      "agenda_tarefas",
	"DB_CHARSET":   "utf8mb4",
	"DB_COLLATION": "utf8mb4_unicode_ci",
}

// Provider defines the datastore used for getting secure configuration values.
type Provider interface {
	Get(key string) (string, error)
}

// Configuration is the single entry point for configuration values.
type Configuration struct {
	provider Provider
}

// Load reads the env filename and loads it into ENV for the current process.
// A blank filename loads the conventional ".env" when present and is a no-op
// otherwise.
func Load(filename string) error {
	if filename == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}

		filename = ".env"
	}

	if err := godotenv.Load(filename); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "godotenv.Load %s", filename)
	}

	return nil
}

// New instantiates a Configuration, provider may be nil when no secret store
// is configured.
func New(provider Provider) *Configuration {
	return &Configuration{provider: provider}
}

// Get returns the value for key, resolved in order: a "<key>_SECURE"
// indirection through the secret provider, the process environment, then the
// documented defaults.
func (c *Configuration) Get(key string) (string, error) {
	if c.provider != nil {
		if secretKey := os.Getenv(key + "_SECURE"); secretKey != "" {
			res, err := c.provider.Get(secretKey)
			if err != nil {
				return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "provider.Get %s", secretKey)
			}

			return res, nil
		}
	}

	if res, ok := os.LookupEnv(key); ok {
		return res, nil
	}

	if res, ok := defaults[key]; ok {
		return res, nil
	}

	return "", internal.NewErrorf(internal.ErrorCodeUnknown, "%s is not set", key)
}
