package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// readLine reads one line and trims it. A final line without a newline is
// still returned; io.EOF is reported only when nothing was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompt prints label and reads the answer.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	return readLine(r)
}

// promptDefault is prompt with a value that an empty answer keeps.
func promptDefault(r *bufio.Reader, w io.Writer, label, current string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s [%s]: ", label, current); err != nil {
		return "", err
	}
	v, err := readLine(r)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// passwordReader reads a password without echo when in is a terminal and
// as a plain line otherwise.
func passwordReader(in io.Reader, r *bufio.Reader, w io.Writer) func() (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() (string, error) { return prompt(r, w, "Password") }
	}
	return func() (string, error) {
		if _, err := fmt.Fprint(w, "Password: "); err != nil {
			return "", err
		}
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
}
