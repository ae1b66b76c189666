// Package config loads the optional .semver-release.yaml file found at the
// repository root.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName = ".semver-release.yaml"

	DefaultMessage     = "Release {{version}}"
	DefaultTaggerName  = "semver-release"
	DefaultTaggerEmail = "noreply@bringyour.com"
)

type Tagger struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Config struct {
	Prefix  string `yaml:"prefix"`
	Scope   string `yaml:"scope"`
	Message string `yaml:"message"`
	Tagger  Tagger `yaml:"tagger"`
}

func Default() Config {
	return Config{
		Message: DefaultMessage,
		Tagger: Tagger{
			Name:  DefaultTaggerName,
			Email: DefaultTaggerEmail,
		},
	}
}

// Load reads FileName from dir. A missing file yields the defaults.
func Load(dir string) (Config, error) {
	if dir == "" {
		return Default(), nil
	}

	f, err := os.Open(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a config document; fields it leaves empty keep their
// defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}
	if cfg.Tagger.Name == "" {
		cfg.Tagger.Name = DefaultTaggerName
	}
	if cfg.Tagger.Email == "" {
		cfg.Tagger.Email = DefaultTaggerEmail
	}

	return cfg, nil
}

// TagMessage renders the tag message for version.
func (c Config) TagMessage(version string) string {
	return strings.ReplaceAll(c.Message, "{{version}}", version)
}
