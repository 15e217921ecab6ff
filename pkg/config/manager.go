package config

import (
	"bufio"
	"errors"
	"fmt"
	fs2 "io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	path2 "github.com/peawormsworth/Finance-BitPay-API/pkg/path"
	"github.com/spf13/afero"
)

const (
	apiKeyEnvVar  = "BITPAY_API_KEY"
	baseURLEnvVar = "BITPAY_BASE_URL"
)

// Environment holds the credentials and endpoint for one merchant account,
// e.g. a sandbox account and a production one side by side.
type Environment struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Timeout converts the configured seconds into a duration, zero when unset.
func (e *Environment) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 0
	}

	return time.Duration(e.TimeoutSeconds) * time.Second
}

type Config struct {
	fs   afero.Fs
	path string

	DefaultEnvironmentName  string                 `yaml:"default_environment"`
	SelectedEnvironmentName string                 `yaml:"-"`
	SelectedEnvironment     *Environment           `yaml:"-"`
	Environments            map[string]Environment `yaml:"environments"`
}

func (c *Config) Persist() error {
	return c.PersistToFs(c.fs)
}

func (c *Config) PersistToFs(fs afero.Fs) error {
	return path2.WriteYaml(fs, c.path, c)
}

func (c *Config) SelectEnvironment(name string) error {
	e, ok := c.Environments[name]
	if !ok {
		return fmt.Errorf("environment '%s' not found in the configuration file", name)
	}

	c.SelectedEnvironment = &e
	c.SelectedEnvironmentName = name
	c.applyEnvironmentOverrides()
	return nil
}

func (c *Config) GetEnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func (c *Config) EnvironmentExists(name string) bool {
	_, ok := c.Environments[name]
	return ok
}

// AddEnvironment registers a new environment and persists the change.
func (c *Config) AddEnvironment(name string, env Environment) error {
	if c.EnvironmentExists(name) {
		return fmt.Errorf("environment '%s' already exists", name)
	}

	if c.Environments == nil {
		c.Environments = map[string]Environment{}
	}

	c.Environments[name] = env
	return c.Persist()
}

func (c *Config) DeleteEnvironment(name string) error {
	if !c.EnvironmentExists(name) {
		return fmt.Errorf("environment '%s' does not exist", name)
	}

	if len(c.Environments) == 1 {
		return errors.New("cannot delete the last environment")
	}

	delete(c.Environments, name)

	if c.DefaultEnvironmentName == name {
		c.DefaultEnvironmentName = c.GetEnvironmentNames()[0]
	}

	if c.SelectedEnvironmentName == name {
		if err := c.SelectEnvironment(c.DefaultEnvironmentName); err != nil {
			return err
		}
	}

	return c.Persist()
}

// applyEnvironmentOverrides lets process environment variables win over the
// configuration file. The override only touches the selected copy, never what
// gets persisted.
func (c *Config) applyEnvironmentOverrides() {
	if c.SelectedEnvironment == nil {
		return
	}

	if v := os.Getenv(apiKeyEnvVar); v != "" {
		c.SelectedEnvironment.APIKey = v
	}

	if v := os.Getenv(baseURLEnvVar); v != "" {
		c.SelectedEnvironment.BaseURL = v
	}
}

func LoadFromFile(fs afero.Fs, path string) (*Config, error) {
	var config Config

	err := path2.ReadYaml(fs, path, &config)
	if err != nil {
		return nil, err
	}

	config.fs = fs
	config.path = path

	e := config.Environments[config.DefaultEnvironmentName]

	config.SelectedEnvironment = &e
	config.SelectedEnvironmentName = config.DefaultEnvironmentName
	config.applyEnvironmentOverrides()
	return &config, nil
}

func LoadOrCreate(fs afero.Fs, path string) (*Config, error) {
	config, err := LoadFromFile(fs, path)
	if err != nil && !errors.Is(err, fs2.ErrNotExist) {
		return nil, err
	}

	if err == nil {
		return config, ensureConfigIsInGitignore(fs, path)
	}

	defaultEnv := Environment{}
	config = &Config{
		fs:   fs,
		path: path,

		DefaultEnvironmentName:  "default",
		SelectedEnvironment:     &defaultEnv,
		SelectedEnvironmentName: "default",
		Environments: map[string]Environment{
			"default": defaultEnv,
		},
	}

	err = config.Persist()
	if err != nil {
		return nil, fmt.Errorf("failed to persist config: %w", err)
	}

	config.applyEnvironmentOverrides()

	return config, ensureConfigIsInGitignore(fs, path)
}

func ensureConfigIsInGitignore(fs afero.Fs, filePath string) (err error) {
	// Check if .gitignore file exists next to the config file
	gitignorePath := path.Join(path.Dir(filePath), ".gitignore")
	exists, err := afero.Exists(fs, gitignorePath)
	if err != nil {
		return err
	}

	fileNameToIgnore := path.Base(filePath)
	if !exists {
		// Create a new .gitignore file if it doesn't exist
		if err = afero.WriteFile(fs, gitignorePath, []byte(fileNameToIgnore), 0o644); err != nil {
			return err
		}
		return nil
	}

	file, err := fs.OpenFile(gitignorePath, os.O_APPEND|os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func(open afero.File) {
		tempErr := open.Close()
		if tempErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close file: %w", tempErr))
		}
	}(file)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == fileNameToIgnore {
			return nil
		}
	}

	_, err = file.Write([]byte("\n" + fileNameToIgnore))
	return err
}
