package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configFile = "/some/path/.bitpay.yml"

const validConfig = `
default_environment: default
environments:
  default:
    api_key: sandbox-key
    base_url: https://test.bitpay.com/api
    timeout_seconds: 10
  production:
    api_key: live-key
`

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name:    "missing file is an error",
			wantErr: true,
		},
		{
			name:    "broken yaml is an error",
			content: "environments: [not a map",
			wantErr: true,
		},
		{
			name:    "valid config selects the default environment",
			content: validConfig,
			want: &Config{
				DefaultEnvironmentName:  "default",
				SelectedEnvironmentName: "default",
				SelectedEnvironment: &Environment{
					APIKey:         "sandbox-key",
					BaseURL:        "https://test.bitpay.com/api",
					TimeoutSeconds: 10,
				},
				Environments: map[string]Environment{
					"default": {
						APIKey:         "sandbox-key",
						BaseURL:        "https://test.bitpay.com/api",
						TimeoutSeconds: 10,
					},
					"production": {
						APIKey: "live-key",
					},
				},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if tt.content != "" {
				require.NoError(t, afero.WriteFile(fs, configFile, []byte(tt.content), 0o644))
			}

			got, err := LoadFromFile(fs, configFile)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			tt.want.fs = fs
			tt.want.path = configFile
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_SelectEnvironment(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

	conf, err := LoadFromFile(fs, configFile)
	require.NoError(t, err)

	err = conf.SelectEnvironment("production")
	require.NoError(t, err)
	assert.Equal(t, "production", conf.SelectedEnvironmentName)
	assert.Equal(t, "live-key", conf.SelectedEnvironment.APIKey)

	err = conf.SelectEnvironment("staging")
	require.Error(t, err)

	// the selection works on a copy, mutating it must not touch the stored
	// environments
	conf.SelectedEnvironment.APIKey = "scratch"
	assert.Equal(t, "live-key", conf.Environments["production"].APIKey)
}

func TestConfig_GetEnvironmentNames(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

	conf, err := LoadFromFile(fs, configFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "production"}, conf.GetEnvironmentNames())
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("existing config is loaded as-is", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

		conf, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)
		assert.Equal(t, "sandbox-key", conf.SelectedEnvironment.APIKey)
	})

	t.Run("missing config is created with an empty default environment", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()

		conf, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)
		assert.Equal(t, "default", conf.SelectedEnvironmentName)
		assert.Empty(t, conf.SelectedEnvironment.APIKey)

		exists, err := afero.Exists(fs, configFile)
		require.NoError(t, err)
		assert.True(t, exists)

		// loading it again must round-trip
		again, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)
		assert.Equal(t, conf.Environments, again.Environments)
	})

	t.Run("config file is added to gitignore", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()

		_, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)

		content, err := afero.ReadFile(fs, "/some/path/.gitignore")
		require.NoError(t, err)
		assert.Equal(t, ".bitpay.yml", string(content))
	})

	t.Run("existing gitignore is appended to", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/some/path/.gitignore", []byte("node_modules"), 0o644))

		_, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)

		content, err := afero.ReadFile(fs, "/some/path/.gitignore")
		require.NoError(t, err)
		assert.Equal(t, "node_modules\n.bitpay.yml", string(content))
	})

	t.Run("gitignore entry is not duplicated", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/some/path/.gitignore", []byte("node_modules\n.bitpay.yml"), 0o644))

		_, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)

		content, err := afero.ReadFile(fs, "/some/path/.gitignore")
		require.NoError(t, err)
		assert.Equal(t, "node_modules\n.bitpay.yml", string(content))
	})
}

func TestConfig_AddEnvironment(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

	conf, err := LoadFromFile(fs, configFile)
	require.NoError(t, err)

	err = conf.AddEnvironment("sandbox", Environment{APIKey: "sandbox-key-2", BaseURL: "https://test.bitpay.com/api"})
	require.NoError(t, err)
	assert.True(t, conf.EnvironmentExists("sandbox"))

	err = conf.AddEnvironment("sandbox", Environment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// the new environment must survive a reload
	reloaded, err := LoadFromFile(fs, configFile)
	require.NoError(t, err)
	assert.Equal(t, "sandbox-key-2", reloaded.Environments["sandbox"].APIKey)
}

func TestConfig_DeleteEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("deletes and persists", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

		conf, err := LoadFromFile(fs, configFile)
		require.NoError(t, err)

		require.NoError(t, conf.DeleteEnvironment("production"))
		assert.False(t, conf.EnvironmentExists("production"))

		reloaded, err := LoadFromFile(fs, configFile)
		require.NoError(t, err)
		assert.False(t, reloaded.EnvironmentExists("production"))
	})

	t.Run("unknown environment is an error", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

		conf, err := LoadFromFile(fs, configFile)
		require.NoError(t, err)

		err = conf.DeleteEnvironment("staging")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("the last environment cannot be deleted", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()

		conf, err := LoadOrCreate(fs, configFile)
		require.NoError(t, err)

		err = conf.DeleteEnvironment("default")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot delete the last environment")
	})

	t.Run("deleting the default moves default and selection", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

		conf, err := LoadFromFile(fs, configFile)
		require.NoError(t, err)

		require.NoError(t, conf.DeleteEnvironment("default"))
		assert.Equal(t, "production", conf.DefaultEnvironmentName)
		assert.Equal(t, "production", conf.SelectedEnvironmentName)
		assert.Equal(t, "live-key", conf.SelectedEnvironment.APIKey)
	})
}

func TestEnvironmentVariableOverrides(t *testing.T) { //nolint:paralleltest
	t.Setenv("BITPAY_API_KEY", "key-from-env")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(validConfig), 0o644))

	conf, err := LoadFromFile(fs, configFile)
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", conf.SelectedEnvironment.APIKey)

	// the stored environment and the file keep the original key
	assert.Equal(t, "sandbox-key", conf.Environments["default"].APIKey)

	require.NoError(t, conf.SelectEnvironment("production"))
	assert.Equal(t, "key-from-env", conf.SelectedEnvironment.APIKey)
}

func TestEnvironment_Timeout(t *testing.T) {
	t.Parallel()

	e := &Environment{}
	assert.Equal(t, time.Duration(0), e.Timeout())

	e.TimeoutSeconds = 45
	assert.Equal(t, 45*time.Second, e.Timeout())
}
