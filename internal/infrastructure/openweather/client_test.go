package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerStub struct {
	geocodeStatus int
	geocodeBody   string
	onecallStatus int
	onecallBody   string

	geocodeCalls int
	onecallCalls int
	lastGeoQuery map[string]string
	lastOneQuery map[string]string
}

func (p *providerStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/zip", func(w http.ResponseWriter, r *http.Request) {
		p.geocodeCalls++
		p.lastGeoQuery = flatten(r)
		w.WriteHeader(p.geocodeStatus)
		_, _ = w.Write([]byte(p.geocodeBody))
	})
	mux.HandleFunc("/onecall", func(w http.ResponseWriter, r *http.Request) {
		p.onecallCalls++
		p.lastOneQuery = flatten(r)
		w.WriteHeader(p.onecallStatus)
		_, _ = w.Write([]byte(p.onecallBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func flatten(r *http.Request) map[string]string {
	out := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("test-key", srv.URL, srv.URL, 2*time.Second)
}

func TestResolve_Success(t *testing.T) {
	stub := &providerStub{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `{"zip":"10001","name":"New York","lat":40.75,"lon":-73.99}`,
		onecallStatus: http.StatusOK,
		onecallBody:   `{"timezone":"America/New_York"}`,
	}
	c := newTestClient(stub.server(t))

	loc, err := c.Resolve(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, 40.75, loc.Latitude)
	assert.Equal(t, -73.99, loc.Longitude)
	assert.Equal(t, "America/New_York", loc.Timezone)

	assert.Equal(t, 1, stub.geocodeCalls)
	assert.Equal(t, 1, stub.onecallCalls)
	assert.Equal(t, "10001", stub.lastGeoQuery["zip"])
	assert.Equal(t, "test-key", stub.lastGeoQuery["appid"])
	assert.Equal(t, onecallExclude, stub.lastOneQuery["exclude"])
	assert.Equal(t, "40.75", stub.lastOneQuery["lat"])
	assert.Equal(t, "-73.99", stub.lastOneQuery["lon"])
}

func TestResolve_UnknownZipcode(t *testing.T) {
	stub := &providerStub{
		geocodeStatus: http.StatusNotFound,
		geocodeBody:   `{"cod":"404","message":"not found"}`,
	}
	c := newTestClient(stub.server(t))

	_, err := c.Resolve(context.Background(), "99999")
	require.ErrorIs(t, err, ErrLocationNotFound)
	assert.Equal(t, 0, stub.onecallCalls, "timezone lookup must not run after a failed geocode")
}

func TestResolve_IncompleteGeocodeResponse(t *testing.T) {
	stub := &providerStub{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `{"zip":"10001","name":"New York"}`,
		onecallStatus: http.StatusOK,
		onecallBody:   `{"timezone":"America/New_York"}`,
	}
	c := newTestClient(stub.server(t))

	_, err := c.Resolve(context.Background(), "10001")
	require.ErrorIs(t, err, ErrLocationNotFound)
	assert.Equal(t, 0, stub.onecallCalls)
}

func TestResolve_MissingTimezone(t *testing.T) {
	stub := &providerStub{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `{"zip":"10001","lat":40.75,"lon":-73.99}`,
		onecallStatus: http.StatusOK,
		onecallBody:   `{}`,
	}
	c := newTestClient(stub.server(t))

	_, err := c.Resolve(context.Background(), "10001")
	require.ErrorIs(t, err, ErrTimezoneNotFound)
}

func TestResolve_ProviderError(t *testing.T) {
	stub := &providerStub{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `{"zip":"10001","lat":40.75,"lon":-73.99}`,
		onecallStatus: http.StatusServiceUnavailable,
		onecallBody:   `{}`,
	}
	c := newTestClient(stub.server(t))

	_, err := c.Resolve(context.Background(), "10001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocationNotFound)
	assert.NotErrorIs(t, err, ErrTimezoneNotFound)
}

func TestResolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", srv.URL, srv.URL, 20*time.Millisecond)
	_, err := c.Resolve(context.Background(), "10001")
	require.Error(t, err)
}

func TestResolve_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient("test-key", srv.URL, srv.URL, 2*time.Second)
	_, err := c.Resolve(ctx, "10001")
	require.Error(t, err)
}
