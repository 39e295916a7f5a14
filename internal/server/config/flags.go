package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/todolist/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-m", "-o", "-u", "-p", "-f"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN
//	-s string   session secret key
//	-t int      session validity, minutes
//	-r int      reset code validity, minutes
//	-m string   SMTP host
//	-o int      SMTP port
//	-u string   SMTP user
//	-p string   SMTP password
//	-f string   mail sender address
//
// args is filtered with flagx.FilterArgs first so flags owned by the CLI
// framework do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session validity (in minutes)")
	resetCodeTTL := fs.Int("r", int(config.ResetCodeTTL.Minutes()), "reset code validity (in minutes)")

	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "o", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUser, "u", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "p", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail sender address")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	// minute granularity applies only when the flag was actually given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		case "r":
			config.ResetCodeTTL = time.Duration(*resetCodeTTL) * time.Minute
		}
	})
	return nil
}
