package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/todolist/internal/flagx"
	"gopkg.in/yaml.v3"
)

// Duration accepts either a Go duration string such as "15m" or an integer
// number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case int:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// FileConfig is the on-disk shape of the configuration. Zero values leave
// the corresponding setting untouched.
type FileConfig struct {
	EndpointAddr string   `json:"endpoint_addr" yaml:"endpoint_addr"`
	DatabaseDSN  string   `json:"database_dsn" yaml:"database_dsn"`
	SecretKey    string   `json:"secret_key" yaml:"secret_key"`
	SessionTTL   Duration `json:"session_ttl" yaml:"session_ttl"`
	ResetCodeTTL Duration `json:"reset_code_ttl" yaml:"reset_code_ttl"`
	SMTPHost     string   `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int      `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string   `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string   `json:"smtp_password" yaml:"smtp_password"`
	MailFrom     string   `json:"mail_from" yaml:"mail_from"`
}

var errUnknownFormat = errors.New("unknown config file format")

// parseFile overlays the file named by -c/-config in args, if any. The
// extension selects the format: .json, .yaml or .yml.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, path)
	}
	if err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddr, fc.EndpointAddr)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	if fc.SessionTTL.Duration != 0 {
		config.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.ResetCodeTTL.Duration != 0 {
		config.ResetCodeTTL = fc.ResetCodeTTL.Duration
	}
	setString(&config.SMTPHost, fc.SMTPHost)
	if fc.SMTPPort != 0 {
		config.SMTPPort = fc.SMTPPort
	}
	setString(&config.SMTPUser, fc.SMTPUser)
	setString(&config.SMTPPassword, fc.SMTPPassword)
	setString(&config.MailFrom, fc.MailFrom)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
