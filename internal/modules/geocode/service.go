package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"servicemarket/internal/domain"
)

var ErrUnresolvable = errors.New("address could not be resolved")

type locationRepo interface {
	GetByAddress(ctx context.Context, address string) (*domain.CachedLocation, error)
	Save(ctx context.Context, loc *domain.CachedLocation) error
	ListRecent(ctx context.Context, limit int) ([]domain.CachedLocation, error)
}

// Service resolves addresses through a fallback cascade: exact cache hit,
// then each provider in order, then a nearest-neighbor match over cached
// addresses. Provider results are cached on the way out.
type Service struct {
	providers []Provider
	cache     locationRepo
}

func NewService(cache locationRepo, providers ...Provider) *Service {
	return &Service{providers: providers, cache: cache}
}

type Result struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Source string  `json:"source"`
}

func (s *Service) Resolve(ctx context.Context, address string) (*Result, error) {
	if cached, err := s.cache.GetByAddress(ctx, address); err == nil {
		return &Result{Lat: cached.Lat, Lng: cached.Lng, Source: "cache"}, nil
	}

	for _, p := range s.providers {
		lat, lng, err := p.Geocode(ctx, address)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Str("address", address).Msg("geocoding provider failed")
			continue
		}

		if err := s.cache.Save(ctx, &domain.CachedLocation{
			Address:  address,
			Lat:      lat,
			Lng:      lng,
			Provider: p.Name(),
		}); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
		}
		return &Result{Lat: lat, Lng: lng, Source: p.Name()}, nil
	}

	return s.nearestCached(ctx, address)
}

// Geocode satisfies the booking module's Geocoder interface.
func (s *Service) Geocode(ctx context.Context, address string) (float64, float64, error) {
	res, err := s.Resolve(ctx, address)
	if err != nil {
		return 0, 0, err
	}
	return res.Lat, res.Lng, nil
}

// nearestCached picks the cached address sharing the most tokens with the
// query. With no coordinates to measure against, token overlap is the
// nearest-neighbor metric available.
func (s *Service) nearestCached(ctx context.Context, address string) (*Result, error) {
	cached, err := s.cache.ListRecent(ctx, 500)
	if err != nil || len(cached) == 0 {
		return nil, ErrUnresolvable
	}

	queryTokens := tokenize(address)
	if len(queryTokens) == 0 {
		return nil, ErrUnresolvable
	}

	var best *domain.CachedLocation
	bestScore := 0
	for i := range cached {
		score := overlap(queryTokens, tokenize(cached[i].Address))
		if score > bestScore {
			bestScore = score
			best = &cached[i]
		}
	}
	if best == nil {
		return nil, ErrUnresolvable
	}
	return &Result{Lat: best.Lat, Lng: best.Lng, Source: "nearest"}, nil
}

func tokenize(address string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(address)) {
		t = strings.Trim(t, ",.")
		if len(t) > 2 {
			tokens[t] = true
		}
	}
	return tokens
}

func overlap(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}
