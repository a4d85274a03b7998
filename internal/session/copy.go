package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/clipboard"
)

// Copy writes the export to the clipboard. The resulting status (copied or
// failed) reverts to idle after the configured delay. Failures are not
// retried.
func (s *Session) Copy() error {
	text := s.Export()
	err := s.opts.Copier.Copy(text)

	status := clipboard.StatusCopied
	if err != nil {
		status = clipboard.StatusFailed
		s.log.Warn("clipboard copy failed", zap.Error(err))
	}

	_ = s.mutate(func() error {
		s.copyStatus = status
		if s.copyTimer != nil {
			s.copyTimer.Stop()
		}
		s.copyGen++
		gen := s.copyGen
		s.copyTimer = time.AfterFunc(s.opts.CopyReset, func() { s.resetCopyStatus(gen) })
		return nil
	})
	return err
}

// CopyStatus returns the transient status of the last copy.
func (s *Session) CopyStatus() clipboard.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStatus
}

// resetCopyStatus ignores timers superseded by a later copy.
func (s *Session) resetCopyStatus(gen int) {
	_ = s.mutate(func() error {
		if gen != s.copyGen {
			return nil
		}
		s.copyStatus = clipboard.StatusIdle
		s.copyTimer = nil
		return nil
	})
}
