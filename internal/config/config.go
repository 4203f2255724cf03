// Package config loads the bot's file-backed configuration: channel and
// role ids, the role-to-channel relay map and the editable message
// templates.
//
// The original bot re-read its config file on every command so that the
// web dashboard's edits took effect without a restart. FileProvider keeps
// that behavior: Current() reads, validates and decodes the file on every
// call. The economy core never touches configuration; only the command
// layer consumes it.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the bot configuration as stored on disk.
type Config struct {
	FineChannelID      int64 `yaml:"fine_channel_id"`
	NotifyChannelID    int64 `yaml:"notify_channel_id"`
	LogChannelID       int64 `yaml:"log_channel_id"`
	RoleID             int64 `yaml:"role_id"`
	ContentMakerRoleID int64 `yaml:"content_maker_role_id"`
	FinancierRoleID    int64 `yaml:"financier_role_id"`
	FineRoleID         int64 `yaml:"fine_role_id"`

	// RoleChannelMap relays messages posted in the mapped channels to the
	// direct messages of every member holding the role. Keys are role ids,
	// values are channel ids; both stay strings because chat platforms use
	// ids beyond int53 and YAML editors mangle big integers.
	RoleChannelMap map[string][]string `yaml:"role_channel_map"`

	// Messages holds the operator-editable message templates, keyed by
	// template name.
	Messages map[string]string `yaml:"messages"`
}

// Provider supplies the current configuration.
type Provider interface {
	Current(ctx context.Context) (Config, error)
}

// FileProvider reads the configuration from a YAML file on every access.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for the given path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Current reads, validates and decodes the configuration file.
func (p *FileProvider) Current(_ context.Context) (Config, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a Config after checking them against the
// embedded CUE schema. Schema violations (wrong types, negative ids,
// unknown fields) fail the parse; a config that decodes but would
// misbehave at runtime should never get that far.
func Parse(raw []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(doc); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.RoleChannelMap == nil {
		cfg.RoleChannelMap = map[string][]string{}
	}
	if cfg.Messages == nil {
		cfg.Messages = map[string]string{}
	}
	return cfg, nil
}

// validate unifies the decoded document with the embedded CUE schema.
func validate(doc any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	schema = schema.LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("lookup #Config: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
