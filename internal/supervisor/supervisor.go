// Package supervisor runs the relay engine as a child process and fans its
// output into a single channel. Each std stream gets its own reader
// goroutine, so a blocking read on one stream never stalls the other. The
// consumer must keep draining Lines until it closes.
package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Stream identifies which std stream a line came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// Line is one line of engine output tagged with its origin.
type Line struct {
	Stream Stream
	Text   string
}

const (
	lineBuffer  = 256
	maxLineSize = 1 << 20
)

type Supervisor struct {
	cmd   *exec.Cmd
	lines chan Line
	done  chan struct{}
	err   error // set before done closes
}

// Start launches the child and begins forwarding its output. The child's
// exit, whether requested or on its own, closes both Lines and Done.
func Start(bin string, args ...string) (*Supervisor, error) {
	cmd := exec.Command(bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}

	s := &Supervisor{
		cmd:   cmd,
		lines: make(chan Line, lineBuffer),
		done:  make(chan struct{}),
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go s.readStream(&readers, Stdout, stdout)
	go s.readStream(&readers, Stderr, stderr)

	go func() {
		readers.Wait()
		s.err = cmd.Wait()
		close(s.lines)
		close(s.done)
	}()

	return s, nil
}

// readStream forwards every line; the buffer only decouples the child's
// write cadence from the consumer's read cadence.
func (s *Supervisor) readStream(wg *sync.WaitGroup, stream Stream, r io.Reader) {
	defer wg.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		s.lines <- Line{Stream: stream, Text: sc.Text()}
	}
}

// Lines yields engine output; closed once the child has exited. The caller
// must keep receiving until the close, or the readers stall.
func (s *Supervisor) Lines() <-chan Line {
	return s.lines
}

// Done is closed when the child has exited.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Err reports how the child exited; blocks until it has.
func (s *Supervisor) Err() error {
	<-s.done
	return s.err
}

func (s *Supervisor) PID() int {
	return s.cmd.Process.Pid
}

// Stop asks the child to terminate and force-kills it if it is still running
// after the grace period. Safe to call after the child exited on its own.
func (s *Supervisor) Stop(grace time.Duration) error {
	select {
	case <-s.done:
		return nil
	default:
	}

	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("signal child: %w", err)
	}

	select {
	case <-s.done:
		return nil
	case <-time.After(grace):
	}

	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill child: %w", err)
	}

	<-s.done
	return nil
}
