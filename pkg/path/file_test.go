package path

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type merchantProfile struct {
	Name     string   `yaml:"name" validate:"required"`
	Currency string   `yaml:"currency" validate:"required,len=3"`
	Webhooks []string `yaml:"webhooks"`
	Contact  contact  `yaml:"contact"`
}

func TestReadYaml(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		content        string
		expectedOutput *merchantProfile
		wantErr        bool
	}{
		{
			name: "read valid yaml file from path",
			path: "config/merchant.yml",
			content: `name: acme
currency: USD
webhooks:
  - https://acme.example.com/paid
  - https://acme.example.com/confirmed
contact:
  email: billing@acme.example.com
  phone: "555-0100"
`,
			expectedOutput: &merchantProfile{
				Name:     "acme",
				Currency: "USD",
				Webhooks: []string{"https://acme.example.com/paid", "https://acme.example.com/confirmed"},
				Contact: contact{
					Email: "billing@acme.example.com",
					Phone: "555-0100",
				},
			},
		},
		{
			name: "yaml that fails validation is rejected",
			path: "config/merchant.yml",
			content: `name: acme
currency: US-DOLLARS
`,
			wantErr: true,
		},
		{
			name:    "file does not exist",
			path:    "config/some-file-that-doesnt-exist",
			wantErr: true,
		},
		{
			name:    "invalid yaml file",
			path:    "config/merchant.yml",
			content: "name: [this is\nnot valid yaml",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if tt.content != "" {
				require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))
			}

			out := &merchantProfile{}
			err := ReadYaml(fs, tt.path, out)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expectedOutput, out)
			}
		})
	}
}

func TestWriteYaml(t *testing.T) {
	t.Parallel()

	type args struct {
		path    string
		content interface{}
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name: "write yaml file",
			args: args{
				path: "path/to/file.yml",
				content: map[string]interface{}{
					"key": "value",
					"key2": map[string]interface{}{
						"key3": "value3",
					},
				},
			},
			want:    "key: value\nkey2:\n    key3: value3\n",
			wantErr: assert.NoError,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			tt.wantErr(t, WriteYaml(fs, tt.args.path, tt.args.content))

			file, err := afero.ReadFile(fs, tt.args.path)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(file))
		})
	}
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	err := fs.MkdirAll("/path1/path2/path3", 0o644)
	assert.NoError(t, err, "failed to create the in-memory directory")

	err = fs.MkdirAll("/path1/path2/venv", 0o644)
	require.NoError(t, err, "failed to create the in-memory directory")

	tests := []struct {
		name      string
		searchDir string
		want      bool
	}{
		{
			name:      "directory doesn't exists",
			searchDir: "/path1/path2/path3/venv",
			want:      false,
		},
		{
			name:      "directory exists",
			searchDir: "/path1/path2/venv",
			want:      true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DirExists(fs, tt.searchDir)
			assert.Equal(t, tt.want, got)
		})
	}
}
