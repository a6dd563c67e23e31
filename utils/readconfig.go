package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

func LoadYamlConfig(s interface{}, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		ErrorLog(err)
		return err
	}
	if err = yaml.Unmarshal(file, s); err != nil {
		ErrorLog(err)
		return err
	}
	return nil
}

func LoadTomlConfig(s interface{}, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		ErrorLog(err)
		return err
	}
	if err = toml.Unmarshal(file, s); err != nil {
		ErrorLog(err)
		return err
	}
	return nil
}

// LoadConfigFile picks the decoder from the file extension, defaulting to toml.
func LoadConfigFile(s interface{}, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYamlConfig(s, path)
	default:
		return LoadTomlConfig(s, path)
	}
}

func WriteTomlConfig(data interface{}, filePath string) error {
	tomlData, err := toml.Marshal(data)
	if err != nil {
		ErrorLog("Error while Marshaling.", err)
		return errors.Wrap(err, "failed to marshal toml config")
	}
	return os.WriteFile(filePath, tomlData, 0644)
}

// Absolute resolves a path against the working directory.
func Absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}
