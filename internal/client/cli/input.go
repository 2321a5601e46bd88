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

// Test seams over x/term; tests replace them to stay off the real terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func writePrompt(w io.Writer, label, fallback string) error {
	if fallback != "" {
		label = fmt.Sprintf("%s [%s]", label, fallback)
	}
	_, err := fmt.Fprint(w, label+": ")
	return err
}

// readRaw returns the next line without its line terminator. A final line
// without a newline is still returned; io.EOF is reported only when nothing
// was read.
func readRaw(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadLine prompts with label and reads a single trimmed line from r.
// A blank answer yields fallback, which is shown in brackets when set.
func ReadLine(r *bufio.Reader, w io.Writer, label, fallback string) (string, error) {
	if err := writePrompt(w, label, fallback); err != nil {
		return "", err
	}
	line, err := readRaw(r)
	if err != nil {
		return "", err
	}
	if s := strings.TrimSpace(line); s != "" {
		return s, nil
	}
	return fallback, nil
}

// ReadBody reads a multi-line text terminated by an empty line or end of
// input. Inner line breaks are kept. When nothing is entered the fallback is
// returned.
func ReadBody(r *bufio.Reader, w io.Writer, label, fallback string) (string, error) {
	if err := writePrompt(w, label+" (empty line to finish)", ""); err != nil {
		return "", err
	}
	if fallback != "" {
		fmt.Fprintln(w, "(leave empty to keep the current text)")
	}

	var lines []string
	for {
		line, err := readRaw(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	if body := strings.TrimSpace(strings.Join(lines, "\n")); body != "" {
		return body, nil
	}
	return fallback, nil
}

// ReadSecret reads a password. On a terminal the input is not echoed;
// otherwise the next line of r is used so credentials can be piped in.
// Callers should wipe the returned slice.
func ReadSecret(r *bufio.Reader, w io.Writer, label string) ([]byte, error) {
	if err := writePrompt(w, label, ""); err != nil {
		return nil, err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := readRaw(r)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
