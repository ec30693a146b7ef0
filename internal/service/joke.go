package service

import (
	"context"
	"time"

	"github.com/piadas/piadas/internal/joke"
	"github.com/piadas/piadas/internal/metrics"
	"github.com/piadas/piadas/internal/model"
)

// JokeService wraps the joke provider with instrumentation.
type JokeService struct {
	provider joke.Provider
	metrics  metrics.Recorder
}

// NewJokeService creates a JokeService.
func NewJokeService(provider joke.Provider, recorder metrics.Recorder) *JokeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &JokeService{provider: provider, metrics: recorder}
}

// Random returns a joke from the provider. Provider errors are returned
// unchanged so callers can match joke.ErrProviderUnavailable and
// joke.ErrMalformedResponse.
func (s *JokeService) Random(ctx context.Context) (*model.Joke, error) {
	start := time.Now()
	j, err := s.provider.Fetch(ctx)
	s.metrics.ObserveJokeFetchDuration(time.Since(start))

	if err != nil {
		s.metrics.IncJokeFetch(metrics.StatusFailed)
		return nil, err
	}

	s.metrics.IncJokeFetch(metrics.StatusSuccess)
	return j, nil
}
