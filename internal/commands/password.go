package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNoTerminal is returned when a password must be prompted for but stdin
// is not a terminal.
var errNoTerminal = errors.New("no terminal available for interactive password prompt (use --password-file)")

// readPassword reads a password from passwordFile, or prompts on the
// terminal when passwordFile is empty or "-". With confirm the prompt asks
// twice.
func readPassword(passwordFile string, errOut io.Writer, confirm bool) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		return readPasswordFile(passwordFile)
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	first, err := promptPassword(fd, errOut, "Password: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", errors.New("password is empty")
	}
	if !confirm {
		return first, nil
	}

	second, err := promptPassword(fd, errOut, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func promptPassword(fd int, errOut io.Writer, prompt string) (string, error) {
	fmt.Fprint(errOut, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// readPasswordFile reads the password from path, stripping trailing newlines.
func readPasswordFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	password := strings.TrimRight(string(data), "\r\n")
	if password == "" {
		return "", fmt.Errorf("password file %s is empty", path)
	}
	return password, nil
}
