package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

// Source - управляемый источник для тестов агрегатора
type Source struct {
	SourceType  domain.SourceType
	NeedsViewer bool
	Candidates  []domain.Candidate
	Error       error
	Delay       time.Duration
	// IgnoreContext makes the source sleep through cancellation, like a
	// misbehaving driver call.
	IgnoreContext bool
	PanicWith     any

	CallCount int
	LastQuery domain.SearchQuery

	mu sync.Mutex
}

func New(t domain.SourceType) *Source {
	return &Source{SourceType: t}
}

func (s *Source) WithCandidates(cands ...domain.Candidate) *Source {
	for i := range cands {
		if cands[i].Source == "" {
			cands[i].Source = s.SourceType
		}
	}
	s.Candidates = cands
	return s
}

func (s *Source) WithError(err error) *Source {
	s.Error = err
	return s
}

func (s *Source) WithDelay(delay time.Duration) *Source {
	s.Delay = delay
	return s
}

func (s *Source) WithViewer() *Source {
	s.NeedsViewer = true
	return s
}

func (s *Source) Type() domain.SourceType { return s.SourceType }

func (s *Source) RequiresViewer() bool { return s.NeedsViewer }

func (s *Source) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	s.mu.Lock()
	s.CallCount++
	s.LastQuery = q
	delay := s.Delay
	err := s.Error
	cands := append([]domain.Candidate(nil), s.Candidates...)
	ignore := s.IgnoreContext
	panicWith := s.PanicWith
	s.mu.Unlock()

	if panicWith != nil {
		panic(panicWith)
	}

	if delay > 0 {
		if ignore {
			time.Sleep(delay)
		} else {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if err != nil {
		return nil, err
	}
	return cands, nil
}

func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CallCount
}
