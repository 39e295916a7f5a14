package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/todolist/internal/common"
)

var errPasswordsDiffer = errors.New("passwords do not match")

// getPassword prints prompt to w and reads a password from fd without echo.
// A newline is printed after the read to keep the terminal tidy.
func getPassword(env *Env, w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := env.ReadPassword(env.In)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// getNewPassword asks twice and insists both entries agree.
func getNewPassword(env *Env, w io.Writer) (string, error) {
	first, err := getPassword(env, w, "New password: ")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(first)

	second, err := getPassword(env, w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		return "", errPasswordsDiffer
	}
	return string(first), nil
}
