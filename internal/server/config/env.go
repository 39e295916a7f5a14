package config

import (
	"fmt"
	"os"
	"strconv"
)

// parseEnv overlays settings from the environment:
//
//	ADDRESS     HTTP bind address
//	DB_URL      database DSN
//	SECRET_KEY  session signing secret
//	SMTP_HOST   mail relay host
//	SMTP_PORT   mail relay port
//	EMAIL       mail relay user, also the default sender
//	PASSWORD    mail relay password
func parseEnv(config *Config) error {
	lookup := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	lookup("ADDRESS", &config.EndpointAddr)
	lookup("DB_URL", &config.DatabaseDSN)
	lookup("SECRET_KEY", &config.SecretKey)
	lookup("SMTP_HOST", &config.SMTPHost)
	lookup("EMAIL", &config.SMTPUser)
	lookup("PASSWORD", &config.SMTPPassword)

	if v, ok := os.LookupEnv("SMTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		config.SMTPPort = port
	}
	return nil
}
