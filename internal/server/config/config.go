// Package config handles configuration for the server component: defaults,
// an optional JSON or YAML file, environment variables and command-line
// flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the todolist server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: Postgres URL or SQLite file DSN; the scheme picks the driver.
//   - SecretKey: HMAC secret signing session cookies and keying reset code digests.
//   - SessionTTL: lifetime of a session cookie.
//   - ResetCodeTTL: how long an emailed reset code stays redeemable.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword: outbound mail relay.
//   - MailFrom: sender address; defaults to SMTPUser.
type Config struct {
	EndpointAddr string
	DatabaseDSN  string
	SecretKey    string
	SessionTTL   time.Duration
	ResetCodeTTL time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// MinSecretKeyLength is the shortest accepted SecretKey, in bytes.
const MinSecretKeyLength = 16

// LoadDefaults populates Config with development defaults. SecretKey has no
// default: it signs the session cookie that carries identity, so it must
// come from SECRET_KEY, -s or the config file.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = "file:lists.db"
	c.SessionTTL = 24 * time.Hour
	c.ResetCodeTTL = 15 * time.Minute
	c.SMTPHost = "smtp.gmail.com"
	c.SMTPPort = 587
}

// MailConfigured reports whether outbound SMTP credentials are present.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.EndpointAddr == "":
		return errors.New("endpoint address is empty")
	case c.DatabaseDSN == "":
		return errors.New("database DSN is empty")
	case c.SecretKey == "":
		return errors.New("secret key is required: set SECRET_KEY or -s")
	case len(c.SecretKey) < MinSecretKeyLength:
		return fmt.Errorf("secret key must be at least %d bytes", MinSecretKeyLength)
	case c.SessionTTL <= 0:
		return errors.New("session TTL must be positive")
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the file named by
// -c/-config in args, then the environment and finally the flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
