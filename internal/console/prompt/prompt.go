// internal/console/prompt/prompt.go
// Package prompt asks for sign-in credentials on the terminal before the
// UI starts.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmpty is returned when the user enters nothing.
var ErrEmpty = errors.New("prompt: empty input")

// Prompter reads lines and passwords. Tests replace ReadPassword.
type Prompter struct {
	In           *bufio.Reader
	Out          io.Writer
	ReadPassword func() (string, error)
}

// Terminal prompts on stdin/stdout, reading passwords without echo.
func Terminal() *Prompter {
	return &Prompter{
		In:  bufio.NewReader(os.Stdin),
		Out: os.Stdout,
		ReadPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stdout)
			return string(b), err
		},
	}
}

func (p *Prompter) line(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	s, err := p.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}

// Credentials fills in whichever of username and password is empty.
func (p *Prompter) Credentials(username, password string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = p.line("Username: "); err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
	}
	if password == "" {
		fmt.Fprint(p.Out, "Password: ")
		if password, err = p.ReadPassword(); err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		if password == "" {
			return "", "", fmt.Errorf("read password: %w", ErrEmpty)
		}
	}
	return username, password, nil
}
