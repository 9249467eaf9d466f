package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RajanDhamala/go-uci/uci"
)

// Group runs several independent sessions on the same position, e.g. to
// compare engines. Sessions share nothing; the group only fans calls out.
type Group struct {
	sessions  []*Session
	closeOnce sync.Once
}

func NewGroup(configs []SessionConfig) (*Group, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("group needs at least one engine")
	}
	sessions := make([]*Session, 0, len(configs))
	for i, cfg := range configs {
		session, err := NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("engine %d: %w", i, err)
		}
		sessions = append(sessions, session)
	}
	return &Group{sessions: sessions}, nil
}

func (g *Group) Sessions() []*Session {
	return append([]*Session(nil), g.sessions...)
}

// StartAll starts every engine concurrently. If any fails, all are shut down.
func (g *Group) StartAll(ctx context.Context) error {
	err := g.each(func(s *Session) error {
		return s.Start(ctx)
	})
	if err != nil {
		_ = g.Close()
		return err
	}
	return nil
}

func (g *Group) AnalyzeAll(pos uci.Position, limit Limit) error {
	if _, err := ResolvePosition(pos); err != nil {
		return err
	}
	return g.each(func(s *Session) error {
		return s.Analyze(pos, limit)
	})
}

func (g *Group) StopAll() error {
	return g.each(func(s *Session) error {
		return s.Stop()
	})
}

func (g *Group) Close() error {
	var closeErr error
	g.closeOnce.Do(func() {
		closeErr = g.each(func(s *Session) error {
			return s.Close()
		})
	})
	return closeErr
}

func (g *Group) each(fn func(*Session) error) error {
	errs := make([]error, len(g.sessions))
	var wg sync.WaitGroup
	for i, session := range g.sessions {
		wg.Add(1)
		go func(i int, session *Session) {
			defer wg.Done()
			if err := fn(session); err != nil {
				errs[i] = fmt.Errorf("engine %s: %w", session.Controller().Path(), err)
			}
		}(i, session)
	}
	wg.Wait()
	return errors.Join(errs...)
}
