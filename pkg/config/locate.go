package config

import (
	"path/filepath"

	"github.com/spf13/afero"
)

const DefaultConfigFileName = ".bitpay.yml"

// LocateConfig walks up from startDir towards the filesystem root and returns
// the first config file it finds, so the CLI works from anywhere inside a
// project. When nothing is found the path inside startDir itself is returned,
// which is where a fresh config would be created.
func LocateConfig(fs afero.Fs, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, DefaultConfigFileName)
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}

		if exists {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(startDir, DefaultConfigFileName), nil
}
