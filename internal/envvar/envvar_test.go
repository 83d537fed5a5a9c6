package envvar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-tarefas/agenda-api/internal/envvar"
)

func TestConfigurationGet(t *testing.T) {
	conf := envvar.New(nil)

	t.Run("environment wins over defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")

		got, err := conf.Get("DB_HOST")
		require.NoError(t, err)
		assert.Equal(t, "db.internal", got)
	})

	t.Run("documented defaults", func(t *testing.T) {
		for key, want := range map[string]string{
			"DB_HOST":      "localhost",
			"DB_PORT":      "3306",
			"DB_USER":      "root",
			"DB_PASSWORD":  "",
			"DB_NAME":      "agenda_tarefas",
			"DB_CHARSET":   "utf8mb4",
			"DB_COLLATION": "utf8mb4_unicode_ci",
		} {
			got, err := conf.Get(key)
			require.NoError(t, err, key)
			assert.Equal(t, want, got, key)
		}
	})

	t.Run("empty environment value still wins", func(t *testing.T) {
		t.Setenv("DB_NAME", "")

		got, err := conf.Get("DB_NAME")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("unknown key errors", func(t *testing.T) {
		_, err := conf.Get("NO_SUCH_KEY")
		require.Error(t, err)
	})
}

type providerStub map[string]string

func (p providerStub) Get(key string) (string, error) {
	return p[key], nil
}

func TestConfigurationGetSecure(t *testing.T) {
	conf := envvar.New(providerStub{"db-password": "s3cr3t"})

	t.Setenv("DB_PASSWORD_SECURE", "db-password")
	t.Setenv("DB_PASSWORD", "plaintext")

	got, err := conf.Get("DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)
}
