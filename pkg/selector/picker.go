package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is the fuzzy finder used when none is configured.
const DefaultCommand = "fzf"

// Exit statuses fzf uses for "no match" and "interrupted".
const (
	exitNoMatch   = 1
	exitInterrupt = 130
)

// Command is a Picker backed by an external program that reads candidates on
// stdin, one per line, and prints the chosen line on stdout.
type Command struct {
	Name string
	Args []string
	// Stderr receives the program's interactive UI; defaults to os.Stderr.
	Stderr io.Writer
}

// Pick runs the command. A no-match or interrupt exit is not an error.
func (c Command) Pick(ctx context.Context, candidates []string) (string, error) {
	name := c.Name
	if name == "" {
		name = DefaultCommand
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("picker %q not available: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Stdin = strings.NewReader(strings.Join(candidates, "\n"))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case exitNoMatch, exitInterrupt:
				return "", nil
			}
		}
		if ctx.Err() != nil {
			return "", nil
		}
		return "", fmt.Errorf("run picker %q: %w", name, err)
	}

	first, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(first), nil
}
