package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/flwarrior/server/middle"
	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite", input: "sqlite:/data", expect: Database{Type: DatabaseSQLite, DataDir: "/data"}},
		{name: "sqlite ignores case of engine", input: "SQLite:./db", expect: Database{Type: DatabaseSQLite, DataDir: "./db"}},
		{name: "sqlite without path", input: "sqlite", expectErr: true},
		{name: "inmem with params", input: "inmem:foo", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "unknown", input: "postgres:host", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(1000, cfg.UnauthDelayMillis)
	assert.Equal(int64(middle.DefaultMaxBodyBytes), cfg.MaxBodyBytes)
	assert.NoError(cfg.Validate())

	noDelay := Config{UnauthDelayMillis: -1}.FillDefaults()
	assert.Zero(noDelay.UnauthDelay())
}

func Test_LoadConfigFile(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expect    Config
		expectErr bool
	}{
		{
			name:    "all keys",
			content: "database = \"sqlite:/var/lib/flw\"\nunauth_delay_ms = 250\nmax_body_bytes = 4096\n",
			expect: Config{
				DB:                Database{Type: DatabaseSQLite, DataDir: "/var/lib/flw"},
				UnauthDelayMillis: 250,
				MaxBodyBytes:      4096,
			},
		},
		{
			name:    "empty",
			content: "",
			expect:  Config{},
		},
		{
			name:      "unknown key",
			content:   "token_secret = \"abc\"\n",
			expectErr: true,
		},
		{
			name:      "bad database",
			content:   "database = \"mongo\"\n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			path := filepath.Join(t.TempDir(), "flwserver.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			actual, err := LoadConfigFile(path)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}
