package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	testhelpers "github.com/vvka-141/psqlc/internal/testing"
)

const djangoSettings = `"""Django settings for shop."""
import os
from pathlib import Path

BASE_DIR = Path(__file__).resolve().parent.parent

SECRET_KEY = os.environ.get("SECRET_KEY", "dev")
DEBUG = True
CACHE_KEY = f"{SECRET_KEY}-cache"
STRICT = os.environ["NOT_SET_ANYWHERE"]

if DEBUG:
    ALLOWED_HOSTS = ["*"]

DATABASES = {
    # local development
    "sqlite": {
        "ENGINE": "django.db.backends.sqlite3",
        "NAME": BASE_DIR / "db.sqlite3",
    },
    "default": {
        "ENGINE": "django.db.backends.postgresql",
        "NAME": os.environ.get("SHOP_DB", "shop"),
        "USER": os.getenv("SHOP_USER"),
        "USERNAME": "fallback",
        "PASSWORD": config("SHOP_PASSWORD", default=""),
        "HOST": env("SHOP_HOST", default="localhost"),
        "PORT": env.int("SHOP_PORT", default=5432),
    },
}

LOG_DIR = str(BASE_DIR / "logs")
STATIC_ROOT = os.path.join(BASE_DIR, "static")
`

func envMap(values map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestExtractFramework_EnvLookups(t *testing.T) {
	lookup := envMap(map[string]string{
		"SHOP_USER":     "alice",
		"SHOP_PASSWORD": "s3cret",
		"SHOP_PORT":     "6543",
	})

	rec := extractFramework("/srv/shop/shop/settings.py", []byte(djangoSettings), lookup, &testhelpers.RecordingLogger{})
	require.NotNil(t, rec)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "s3cret", rec.Password)
	assert.Equal(t, "shop", rec.Database)
	assert.Equal(t, "localhost", rec.Host)
	assert.Equal(t, 6543, rec.Port)
	assert.Equal(t, "/srv/shop/shop/settings.py", rec.Source)
}

func TestExtractFramework_NoneValueFallsToNextAlias(t *testing.T) {
	rec := extractFramework("/srv/shop/shop/settings.py", []byte(djangoSettings), envMap(nil), &testhelpers.RecordingLogger{})
	require.NotNil(t, rec)
	assert.Equal(t, "fallback", rec.Username)
	assert.Equal(t, "", rec.Password)
	assert.Equal(t, 5432, rec.Port)
}

func TestEvalSettings_BaseDirArithmetic(t *testing.T) {
	logger := &testhelpers.RecordingLogger{}
	globals := evalSettings("/srv/shop/shop/settings.py", []byte(djangoSettings), envMap(nil), logger)

	assert.Equal(t, starlark.String("/srv/shop/logs"), globals["LOG_DIR"])
	assert.Equal(t, starlark.String("/srv/shop/static"), globals["STATIC_ROOT"])
	assert.Equal(t, pathValue("/srv/shop"), globals["BASE_DIR"])
	assert.Equal(t, starlark.String("dev"), globals["SECRET_KEY"])

	assert.NotContains(t, globals, "CACHE_KEY")
	assert.NotContains(t, globals, "STRICT")
	assert.NotContains(t, globals, "ALLOWED_HOSTS")
	assert.NotEmpty(t, logger.VerboseLines)
}

func TestExtractFramework_Helpers(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		env    map[string]string
		verify func(t *testing.T, user, db, host string, port int)
	}{
		{
			name: "env.db",
			src:  "DATABASES = {'default': env.db()}",
			env:  map[string]string{"DATABASE_URL": "postgres://u:p@db:5433/shop"},
			verify: func(t *testing.T, user, db, host string, port int) {
				assert.Equal(t, "u", user)
				assert.Equal(t, "shop", db)
				assert.Equal(t, "db", host)
				assert.Equal(t, 5433, port)
			},
		},
		{
			name: "dj_database_url default",
			src:  "DATABASES = {'default': dj_database_url.config(default='postgresql://app@localhost/app_db')}",
			verify: func(t *testing.T, user, db, host string, port int) {
				assert.Equal(t, "app", user)
				assert.Equal(t, "app_db", db)
				assert.Equal(t, "localhost", host)
				assert.Zero(t, port)
			},
		},
		{
			name: "decouple cast",
			src: `PORT = config("DB_PORT", cast=int)
DATABASES = {"default": {"ENGINE": "postgresql", "USER": "app", "NAME": "x", "PORT": PORT}}`,
			env: map[string]string{"DB_PORT": "7000"},
			verify: func(t *testing.T, user, db, host string, port int) {
				assert.Equal(t, 7000, port)
			},
		},
		{
			name: "engine suffix and lowercase aliases",
			src:  `DATABASES = {"main": {"ENGINE": "myproject.backends.postgresql", "user": "low", "dbname": "d", "server": "s"}}`,
			verify: func(t *testing.T, user, db, host string, port int) {
				assert.Equal(t, "low", user)
				assert.Equal(t, "d", db)
				assert.Equal(t, "s", host)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := extractFramework("/p/settings.py", []byte(tt.src), envMap(tt.env), &testhelpers.RecordingLogger{})
			require.NotNil(t, rec)
			tt.verify(t, rec.Username, rec.Database, rec.Host, rec.Port)
		})
	}
}

func TestExtractFramework_NonPostgresSkipped(t *testing.T) {
	src := `DATABASES = {
    "default": {"ENGINE": "django.db.backends.mysql", "USER": "root"},
    "cache": {"ENGINE": "django.db.backends.sqlite3"},
}`
	logger := &testhelpers.RecordingLogger{}

	assert.Nil(t, extractFramework("/p/settings.py", []byte(src), envMap(nil), logger))
	require.Len(t, logger.WarnLines, 1)
	assert.Contains(t, logger.WarnLines[0], "django.db.backends.mysql")
}

func TestExtractFramework_FirstEligibleEntryWins(t *testing.T) {
	src := `DATABASES = {
    "replica": {"ENGINE": "django.db.backends.postgresql_psycopg2", "USER": "first"},
    "default": {"ENGINE": "django.db.backends.postgresql", "USER": "second"},
}`
	rec := extractFramework("/p/settings.py", []byte(src), envMap(nil), &testhelpers.RecordingLogger{})
	require.NotNil(t, rec)
	assert.Equal(t, "first", rec.Username)
}

func TestExtractFramework_Malformed(t *testing.T) {
	for name, src := range map[string]string{
		"unterminated":  "DATABASES = {\n    'default': {'ENGINE': 'postgresql',\n",
		"not a dict":    "DATABASES = ['postgresql']",
		"missing":       "DEBUG = True\n",
		"syntax":        "DATABASES = {'default': {'ENGINE': 'postgres' 'USER': }}",
		"binary junk":   "\x00\x01\x02",
		"open and read": "DATABASES = {'default': {'ENGINE': 'postgres', 'PASSWORD': open('/etc/passwd').read()}}",
	} {
		t.Run(name, func(t *testing.T) {
			logger := &testhelpers.RecordingLogger{}
			assert.Nil(t, extractFramework("/p/settings.py", []byte(src), envMap(nil), logger))
			assert.NotEmpty(t, logger.WarnLines)
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	src := "# comment\n" +
		"A = 1  # trailing\n" +
		"B = (\n    2,\n    3,\n)\n" +
		"C = \"\"\"multi\nline = not a statement\n\"\"\"\n" +
		"if A:\n    D = 4\n" +
		"E = 'x'; F = \"y#z\"\n" +
		"G = 1 + \\\n    2\n"

	stmts := splitTopLevel(src)
	require.Len(t, stmts, 7)
	assert.Equal(t, "A = 1", stmts[0])
	assert.Equal(t, "B = (\n    2,\n    3,\n)", stmts[1])
	assert.Equal(t, "C = \"\"\"multi\nline = not a statement\n\"\"\"", stmts[2])
	assert.Equal(t, "if A:", stmts[3])
	assert.Equal(t, "E = 'x'", stmts[4])
	assert.Equal(t, "F = \"y#z\"", stmts[5])
	assert.True(t, strings.HasPrefix(stmts[6], "G = 1 +"))
	assert.NotContains(t, stmts[6], "\\")
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		stmt     string
		name     string
		expr     string
		assigned bool
	}{
		{"A = 1", "A", "1", true},
		{"DATABASES={'a': 1}", "DATABASES", "{'a': 1}", true},
		{"A == 1", "", "", false},
		{"A += 1", "", "", false},
		{"x.y = 2", "", "", false},
		{"A, B = 1, 2", "", "", false},
		{"A =", "", "", false},
	}
	for _, tt := range tests {
		name, expr, ok := parseAssignment(tt.stmt)
		assert.Equal(t, tt.assigned, ok, tt.stmt)
		assert.Equal(t, tt.name, name, tt.stmt)
		assert.Equal(t, tt.expr, expr, tt.stmt)
	}
}
