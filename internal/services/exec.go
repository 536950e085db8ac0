package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
)

// Command describes a single external process invocation.
type Command struct {
	Binary string
	Args   []string
	// Dir is the working directory; empty inherits the caller's.
	Dir string
}

// String renders the command as a shell-quoted line for logs and error messages.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Binary}, c.Args...))
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command, onOutput func(string)) error
}

// CommandExecutor runs commands with os/exec. Standard input is bound to the
// null device so tools never wait for interactive confirmation.
type CommandExecutor struct{}

// Run starts the command, forwards every stdout/stderr line to onOutput, and
// returns an error when the process cannot start or exits non-zero.
func (CommandExecutor) Run(ctx context.Context, command Command, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir
	cmd.Stdin = nil
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		scanErr error
		once    sync.Once
	)

	forward := func(line string) {
		if onOutput == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onOutput(line)
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanOutputLines)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), " "); line != "" {
				forward(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

// scanOutputLines splits on both '\n' and '\r'; rsync and ffmpeg redraw
// progress lines with carriage returns.
func scanOutputLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// OutputTail keeps the last few lines of command output so failures can be
// reported with the tool's own diagnostics.
type OutputTail struct {
	limit int
	lines []string
}

// NewOutputTail returns a tail buffer holding at most limit lines.
func NewOutputTail(limit int) *OutputTail {
	if limit <= 0 {
		limit = 1
	}
	return &OutputTail{limit: limit}
}

// Add records a line, evicting the oldest one when full.
func (t *OutputTail) Add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

// String joins the retained lines with "; ".
func (t *OutputTail) String() string {
	return strings.Join(t.lines, "; ")
}
