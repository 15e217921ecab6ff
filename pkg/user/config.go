package user

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/path"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	bitpayHomeDir      = ".bitpay"
	homeDirPermissions = 0o755
)

type ConfigManager struct {
	fs afero.Fs

	lock sync.Mutex

	userHomeDir   string
	bitpayHomeDir string
}

func NewConfigManager(fs afero.Fs) *ConfigManager {
	return &ConfigManager{
		fs: fs,
	}
}

func (c *ConfigManager) EnsureHomeDirExists() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	bitpayConfigPath := filepath.Join(homeDir, bitpayHomeDir)
	if !path.DirExists(c.fs, bitpayConfigPath) {
		err = c.fs.MkdirAll(bitpayConfigPath, homeDirPermissions)
		if err != nil {
			return errors.Wrap(err, "failed to create bitpay home directory")
		}
	}

	c.userHomeDir = homeDir
	c.bitpayHomeDir = bitpayConfigPath

	return nil
}

// EnsureAndGetBitpayHomeDir returns the per-user state directory, creating it
// on first use.
func (c *ConfigManager) EnsureAndGetBitpayHomeDir() (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.bitpayHomeDir != "" {
		return c.bitpayHomeDir, nil
	}

	err := c.EnsureHomeDirExists()
	if err != nil {
		return "", err
	}

	return c.bitpayHomeDir, nil
}
