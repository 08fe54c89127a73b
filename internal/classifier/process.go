// Package classifier runs an external detector process and turns its output
// into detections. Each output line is "<label> <confidence>", where the label
// may contain spaces and the confidence is the last field.
package classifier

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/verte-zerg/flashmash/internal/input"
)

// ErrNotConfigured is returned by Start when no command is set.
var ErrNotConfigured = errors.New("classifier command not configured")

// Process is a classifier backed by a long-running command.
type Process struct {
	name    string
	command string
	logger  *slog.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	done       chan struct{}
	detections chan input.Detection
	waitErr    error
}

// New returns a Process for the given shell-free command line.
func New(name, command string, logger *slog.Logger) *Process {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Process{name: name, command: strings.TrimSpace(command), logger: logger}
}

// Configured reports whether a command is set.
func (p *Process) Configured() bool {
	return p.command != ""
}

// Start launches the command. Detections is replaced on every Start and is
// closed when the command exits.
func (p *Process) Start(ctx context.Context) error {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return fmt.Errorf("%s: %w", p.name, ErrNotConfigured)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		select {
		case <-p.done:
			// Previous run exited on its own.
			p.cancel()
			p.cancel = nil
		default:
			return fmt.Errorf("%s classifier already running", p.name)
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(runCtx, parts[0], parts[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to open %s output: %w", p.name, err)
	}
	if err := ctx.Err(); err != nil {
		cancel()
		return err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start %s classifier: %w", p.name, err)
	}

	p.cancel = cancel
	p.done = make(chan struct{})
	p.detections = make(chan input.Detection)
	p.waitErr = nil
	go p.read(runCtx, cmd, stdout, p.detections, p.done)
	p.logger.Info("classifier started", "name", p.name, "command", parts[0], "pid", cmd.Process.Pid)
	return nil
}

// Stop kills the command and waits for it to exit.
func (p *Process) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel = nil
	p.done = nil
	return nil
}

// Detections returns the channel of the current run.
func (p *Process) Detections() <-chan input.Detection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detections
}

// Err returns the exit error of the last run, if it has ended.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

func (p *Process) read(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, out chan<- input.Detection, done chan struct{}) {
	defer close(done)
	defer close(out)

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		d, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- d:
		case <-ctx.Done():
			// Drain so Wait does not block on a full pipe.
			_, _ = io.Copy(io.Discard, stdout)
			p.finish(cmd)
			return
		}
	}
	p.finish(cmd)
}

func (p *Process) finish(cmd *exec.Cmd) {
	err := cmd.Wait()
	p.mu.Lock()
	p.waitErr = err
	p.mu.Unlock()
	if err != nil {
		p.logger.Debug("classifier exited", "name", p.name, "error", err)
		return
	}
	p.logger.Debug("classifier exited", "name", p.name)
}

// ParseLine parses "<label> <confidence>". Blank lines and lines without a
// numeric last field are rejected.
func ParseLine(line string) (input.Detection, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return input.Detection{}, false
	}
	score, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return input.Detection{}, false
	}
	return input.Detection{
		Label:      strings.Join(fields[:len(fields)-1], " "),
		Confidence: score,
	}, true
}
