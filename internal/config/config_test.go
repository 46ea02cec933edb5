package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/roleviews/internal/roles"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, roles.DefaultHooks, c.Roles.MethodRegistry)
	assert.Empty(t, c.Roles.RoleGroups)
	assert.Equal(t, roles.AmbiguityFallback, c.AmbiguityPolicy())
	assert.Equal(t, 30*time.Second, c.CacheTTL())
	assert.Equal(t, 15*time.Minute, c.AccessTTL())
	assert.Equal(t, 30*time.Second, c.BreakerTimeout())
	assert.Equal(t, time.Minute, c.RateWindow())
	assert.False(t, c.Rate.Enabled)
}

func TestLoad_YAMLAndRelativeFixtures(t *testing.T) {
	p := writeYAML(t, `
roles:
  role_groups: [Admin, Editor]
  viewset_method_registry: [get_queryset]
  ambiguous: reject
storage:
  fixtures: data/fixtures.yaml
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"Admin", "Editor"}, c.Roles.RoleGroups)
	assert.Equal(t, []string{"get_queryset"}, c.Roles.MethodRegistry)
	assert.Equal(t, roles.AmbiguityReject, c.AmbiguityPolicy())
	assert.Equal(t, filepath.Join(filepath.Dir(p), "data", "fixtures.yaml"), c.Storage.Fixtures)
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeYAML(t, "roles:\n  role_groups: [fromfile]\n")
	t.Setenv("ROLE_GROUPS", " admin , editor ,, ")
	t.Setenv("VIEWSET_METHOD_REGISTRY", "get_queryset,perform_create")
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_ENABLED", "true")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "editor"}, c.Roles.RoleGroups)
	assert.Equal(t, []string{"get_queryset", "perform_create"}, c.Roles.MethodRegistry)
	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, 3, c.Cache.Redis.DB)
	assert.True(t, c.Rate.Enabled)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown driver":     "storage:\n  driver: mysql\n",
		"postgres needs dsn": "storage:\n  driver: postgres\n",
		"redis needs addr":   "cache:\n  kind: redis\n",
		"bad policy":         "roles:\n  ambiguous: maybe\n",
		"bad ttl":            "cache:\n  ttl: soon\n",
		"prod needs secret":  "app:\n  env: prod\n",
		"bad log level":      "log:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoad_AppEnvKey(t *testing.T) {
	c, err := Load(writeYAML(t, "app:\n  env: prod\nlog:\n  level: warn\njwt:\n  secret: s3cr3t\n"))
	require.NoError(t, err)
	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestValidate_JoinsErrors(t *testing.T) {
	_, err := Load(writeYAML(t, "storage:\n  driver: mysql\ncache:\n  kind: disk\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "cache.kind")
}
