package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/shared"
)

// Sink is the single audio output. Play replaces whatever source was set before.
type Sink interface {
	Play(ctx context.Context, url string) error
	Stop() error
}

var (
	_ Sink = (*ExecSink)(nil)
	_ Sink = (*NopSink)(nil)
	_ Sink = (*OpenSink)(nil)
)

// ExecSink plays streams through an external player process, one at a time.
type ExecSink struct {
	template []string
	logger   *log.Logger
	command  func(args []string) *exec.Cmd

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewExecSink creates a sink running template (see [shared.PlayerArgs]) for each stream.
func NewExecSink(template []string, logger *log.Logger) *ExecSink {
	return &ExecSink{
		template: template,
		logger:   logger,
		command:  shared.Command,
	}
}

// Play stops the running player, if any, and starts a new one for url.
func (s *ExecSink) Play(ctx context.Context, url string) error {
	args, err := shared.PlayerArgs(s.template, url)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	cmd := s.command(args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %s: %w", args[0], err)
	}
	done := make(chan struct{})
	s.cmd, s.done = cmd, done
	s.logger.Info("player started", "cmd", args[0], "pid", cmd.Process.Pid, "url", url)

	go func() {
		defer close(done)
		if err := cmd.Wait(); err != nil {
			s.logger.Debug("player exited", "pid", cmd.Process.Pid, "error", err)
		}
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

// Wait blocks until the most recently started player exits or ctx is done.
func (s *ExecSink) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop kills the running player.
func (s *ExecSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

// Running reports whether a player process is alive.
func (s *ExecSink) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

func (s *ExecSink) stopLocked() {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Warn("failed to stop player", "pid", s.cmd.Process.Pid, "error", err)
	}
	s.cmd = nil
}

// NopSink records the source without producing audio.
type NopSink struct {
	mu     sync.Mutex
	source string
}

func (s *NopSink) Play(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = url
	return nil
}

func (s *NopSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = ""
	return nil
}

// Source returns the last url handed to Play.
func (s *NopSink) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// OpenSink hands each stream url to the platform's default application.
type OpenSink struct {
	logger  *log.Logger
	command func(args []string) *exec.Cmd
}

// NewOpenSink creates an OpenSink.
func NewOpenSink(logger *log.Logger) *OpenSink {
	return &OpenSink{logger: logger, command: shared.Command}
}

func (s *OpenSink) Play(ctx context.Context, url string) error {
	args, err := shared.OpenerArgs(url)
	if err != nil {
		return err
	}
	if err := s.command(args).Start(); err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	s.logger.Info("opened stream", "url", url)
	return nil
}

// Stop is a no-op; the opened application owns playback.
func (s *OpenSink) Stop() error { return nil }
