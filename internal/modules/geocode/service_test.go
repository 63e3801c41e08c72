package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"servicemarket/internal/domain"
)

type memoryCache struct {
	byAddress map[string]*domain.CachedLocation
	saved     []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{byAddress: make(map[string]*domain.CachedLocation)}
}

func (c *memoryCache) GetByAddress(_ context.Context, address string) (*domain.CachedLocation, error) {
	if loc, ok := c.byAddress[address]; ok {
		return loc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (c *memoryCache) Save(_ context.Context, loc *domain.CachedLocation) error {
	c.byAddress[loc.Address] = loc
	c.saved = append(c.saved, loc.Address)
	return nil
}

func (c *memoryCache) ListRecent(_ context.Context, _ int) ([]domain.CachedLocation, error) {
	out := make([]domain.CachedLocation, 0, len(c.byAddress))
	for _, loc := range c.byAddress {
		out = append(out, *loc)
	}
	return out, nil
}

type stubProvider struct {
	name  string
	lat   float64
	lng   float64
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Geocode(_ context.Context, _ string) (float64, float64, error) {
	p.calls++
	if p.err != nil {
		return 0, 0, p.err
	}
	return p.lat, p.lng, nil
}

func TestResolveCacheHitSkipsProviders(t *testing.T) {
	cache := newMemoryCache()
	cache.byAddress["12 Marina Road, Lagos"] = &domain.CachedLocation{
		Address: "12 Marina Road, Lagos", Lat: 6.45, Lng: 3.39,
	}
	primary := &stubProvider{name: "primary", lat: 1, lng: 1}
	svc := NewService(cache, primary)

	res, err := svc.Resolve(context.Background(), "12 Marina Road, Lagos")

	require.NoError(t, err)
	assert.Equal(t, "cache", res.Source)
	assert.Equal(t, 6.45, res.Lat)
	assert.Equal(t, 0, primary.calls)
}

func TestResolveFirstProviderWinsAndCaches(t *testing.T) {
	cache := newMemoryCache()
	primary := &stubProvider{name: "primary", lat: 6.45, lng: 3.39}
	secondary := &stubProvider{name: "secondary", lat: 9, lng: 9}
	svc := NewService(cache, primary, secondary)

	res, err := svc.Resolve(context.Background(), "12 Marina Road, Lagos")

	require.NoError(t, err)
	assert.Equal(t, "primary", res.Source)
	assert.Equal(t, 0, secondary.calls)
	assert.Equal(t, []string{"12 Marina Road, Lagos"}, cache.saved)
}

func TestResolveFallsThroughToSecondProvider(t *testing.T) {
	cache := newMemoryCache()
	primary := &stubProvider{name: "primary", err: errors.New("timeout")}
	secondary := &stubProvider{name: "secondary", lat: 6.45, lng: 3.39}
	svc := NewService(cache, primary, secondary)

	res, err := svc.Resolve(context.Background(), "12 Marina Road, Lagos")

	require.NoError(t, err)
	assert.Equal(t, "secondary", res.Source)
	assert.Equal(t, 1, primary.calls)
}

func TestResolveNearestCachedWhenProvidersFail(t *testing.T) {
	cache := newMemoryCache()
	cache.byAddress["14 Marina Road, Lagos"] = &domain.CachedLocation{
		Address: "14 Marina Road, Lagos", Lat: 6.45, Lng: 3.39,
	}
	cache.byAddress["1 Kofo Abayomi St, Victoria Island"] = &domain.CachedLocation{
		Address: "1 Kofo Abayomi St, Victoria Island", Lat: 6.43, Lng: 3.41,
	}
	down := &stubProvider{name: "primary", err: errors.New("unreachable")}
	svc := NewService(cache, down)

	res, err := svc.Resolve(context.Background(), "12 Marina Road, Lagos")

	require.NoError(t, err)
	assert.Equal(t, "nearest", res.Source)
	assert.Equal(t, 6.45, res.Lat)
}

func TestResolveUnresolvable(t *testing.T) {
	cache := newMemoryCache()
	down := &stubProvider{name: "primary", err: errors.New("unreachable")}
	svc := NewService(cache, down)

	_, err := svc.Resolve(context.Background(), "12 Marina Road, Lagos")
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestNominatimProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "12 Marina Road", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"6.4541","lon":"3.3947"}]`))
	}))
	defer srv.Close()

	p := &NominatimProvider{BaseURL: srv.URL}
	lat, lng, err := p.Geocode(context.Background(), "12 Marina Road")

	require.NoError(t, err)
	assert.Equal(t, 6.4541, lat)
	assert.Equal(t, 3.3947, lng)
}

func TestNominatimProviderNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := &NominatimProvider{BaseURL: srv.URL}
	_, _, err := p.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestPositionstackProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forward", r.URL.Path)
		assert.Equal(t, "test_key", r.URL.Query().Get("access_key"))
		w.Write([]byte(`{"data":[{"latitude":6.4541,"longitude":3.3947}]}`))
	}))
	defer srv.Close()

	p := &PositionstackProvider{BaseURL: srv.URL, AccessKey: "test_key"}
	lat, lng, err := p.Geocode(context.Background(), "12 Marina Road")

	require.NoError(t, err)
	assert.Equal(t, 6.4541, lat)
	assert.Equal(t, 3.3947, lng)
}
