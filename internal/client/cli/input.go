package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// promptToken reads the access token from the terminal without echo. It
// fails when stdin is not a terminal, so scripts get a clear error instead
// of blocking.
func promptToken(w io.Writer) (string, error) {
	fd := stdinFd()
	if !isTerminal(fd) {
		return "", errTokenRequired
	}

	if _, err := fmt.Fprint(w, "Access token: "); err != nil {
		return "", err
	}
	raw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errTokenRequired
	}
	return token, nil
}
