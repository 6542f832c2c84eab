package usecase

import (
	"context"
	"sync/atomic"
)

// DisplayEvent carries a one-time code to the on-screen display channel.
// Streams are keyed by the issuance session id, so only the browser session
// that requested the code can observe it.
type DisplayEvent struct {
	SessionID        string `json:"session_id"`
	Code             string `json:"code"`
	ExpiresAtUnixMs  int64  `json:"expires_at_unix_ms"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

type subscriber struct {
	ch     chan DisplayEvent
	closed atomic.Bool
}

// StreamOtpDisplay registers a display stream for a session and closes it
// when ctx is done.
func (s *Usecase) StreamOtpDisplay(ctx context.Context, sessionID string) <-chan DisplayEvent {
	sub := &subscriber{ch: make(chan DisplayEvent, 10)}

	s.streamMu.Lock()
	if s.streams[sessionID] == nil {
		s.streams[sessionID] = make(map[*subscriber]struct{})
	}
	s.streams[sessionID][sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		if subs := s.streams[sessionID]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.streams, sessionID)
			}
		}
		s.streamMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// DisplayEnabled reports whether the on-screen display channel is switched on.
func (s *Usecase) DisplayEnabled() bool {
	return s.cfg.GetBool("modules.delivery.display_enabled")
}

func (s *Usecase) publishDisplay(evt DisplayEvent) {
	s.streamMu.RLock()
	subs := s.streams[evt.SessionID]
	s.streamMu.RUnlock()

	for sub := range subs {
		if sub.closed.Load() {
			continue
		}

		select {
		case sub.ch <- evt:
		default:
		}
	}
}
