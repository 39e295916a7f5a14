// Package cli implements the todolist command line: serving the web app,
// applying database migrations and resetting a password by hand.
//
// Every command accepts the server configuration flags (see the config
// package) after the command name, e.g.
//
//	todolist serve -a :9000 -d postgres://...
//	todolist passwd alice@example.com -c conf.yaml
package cli
