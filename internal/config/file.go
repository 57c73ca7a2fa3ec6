package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LoadFile decodes the YAML file at path into cfg. Keys absent from the
// file keep their current values; unknown keys are an error.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// ApplyFile loads cfg.ConfigFile, if set, underneath the flags already
// parsed into fs: values given on the command line win over the file.
func ApplyFile(cfg *Config, fs *pflag.FlagSet) error {
	if cfg.ConfigFile == "" {
		return nil
	}
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := LoadFile(cfg.ConfigFile, cfg); err != nil {
		return err
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil {
			err = f.Value.Set(changed[f.Name])
		}
	})
	return err
}
