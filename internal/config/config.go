// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked for in the standard locations.
const FileName = "npsctl.yaml"

// ErrNoConfig means no config file exists in any standard location. Running
// without a config file is allowed.
var ErrNoConfig = errors.New("no config file found")

type Type struct {
	Source string
	Data   map[string]interface{}
}

var Config Type

// Load reads the config file and makes it the package-wide Config.
func Load() (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return Type{}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	Config = Type{
		Source: path,
		Data:   data}

	return Config, nil
}

// get traverses the map using a dotted key path
func (cfg *Type) get(kspec string) (any, error) {
	var current interface{} = cfg.Data

	for _, key := range strings.Split(kspec, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("no valid path found for %s", kspec)
		}
		current, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("no valid path found for %s", kspec)
		}
	}

	return current, nil
}

func GetString(key string, defaultValue ...string) (string, error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}

	return s, nil
}

func GetInt(key string, defaultValue ...int) (int, error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

// getConfigPath honors NPSCTL_CFG when set and otherwise probes the usual
// config homes for npsctl.yaml.
func getConfigPath() (string, error) {
	if explicit, ok := os.LookupEnv("NPSCTL_CFG"); ok && explicit != "" {
		fileInfo, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("NPSCTL_CFG points to a directory: %s", explicit)
		}
		return explicit, nil
	}

	var candidates []string = []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil {
			if !fileInfo.IsDir() {
				log.Debugf("using config file: %s", file)
				return file, nil
			}
		}
	}
	return "", fmt.Errorf("%w in standard locations", ErrNoConfig)
}
