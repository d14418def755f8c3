package directory

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshstat/internal/api"
)

const directoryJSON = `[
	{"node_id": "!a5060ad0", "long_name": "Hilltop Relay", "short_name": "HTR", "node_tier": "core_router",
	 "position": {"latitude": 40.4406, "longitude": -79.9959},
	 "antenna": {"gain_dbi": 5.8, "agl_m": 12, "msl_m": 380}},
	{"node_id": "!00000001", "long_name": "Gateway", "short_name": "GW", "node_tier": "gateway"},
	{"node_id": "!00000002", "long_name": "Rooftop, North", "short_name": "RN", "node_tier": "supplemental",
	 "position": null, "antenna": {"gain_dbi": null}}
]`

func TestExport_HTTP(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wpamesh/v1/nodes", r.URL.Path)
		_, _ = w.Write([]byte(directoryJSON))
	}))
	defer s.Close()

	log, hook := test.NewNullLogger()
	client := api.NewClient(s.URL+"/wp-json/wpamesh/v1/nodes", time.Second, log)

	var buf bytes.Buffer
	err := Export(context.Background(), HTTPFetcher{Client: client}, []string{"core_router", "supplemental"}, &buf, log)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"NodeID", "LongName", "ShortName", "Lat", "Lon", "AntennaDB", "HeightAGL", "HeightMSL"}, records[0])
	assert.Equal(t, []string{"!a5060ad0", "Hilltop Relay", "HTR", "40.4406", "-79.9959", "5.8", "12", "380"}, records[1])
	assert.Equal(t, []string{"!00000002", "Rooftop, North", "RN", "", "", "", "", ""}, records[2])

	assert.Equal(t, 3, hook.LastEntry().Data["fetched"])
	assert.Equal(t, 2, hook.LastEntry().Data["exported"])
}

func TestExport_HTTPFailureIsError(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer s.Close()

	log, _ := test.NewNullLogger()
	var buf bytes.Buffer
	err := Export(context.Background(), HTTPFetcher{Client: api.NewClient(s.URL, time.Second, log)}, []string{"core_router"}, &buf, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Zero(t, buf.Len())
}

type fakeRunner struct {
	body  string
	err   error
	calls [][]string
	path  string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return r.err
	}
	// curl -s -o <path> <url>
	r.path = args[2]
	return os.WriteFile(r.path, []byte(r.body), 0o600)
}

func TestCurlFetcher(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{body: directoryJSON}
	f := CurlFetcher{URL: "https://directory.test/nodes", Runner: runner}

	nodes, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "core_router", nodes[0].Tier)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"curl", "-s", "-o", runner.path, "https://directory.test/nodes"}, runner.calls[0])

	_, err = os.Stat(runner.path)
	assert.True(t, os.IsNotExist(err), "temp file not removed")
}

func TestCurlFetcher_Errors(t *testing.T) {
	t.Parallel()

	_, err := CurlFetcher{URL: "u", Runner: &fakeRunner{err: errors.New("exit status 6")}}.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 6")

	_, err = CurlFetcher{URL: "u", Runner: &fakeRunner{body: "<html>waf</html>"}}.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrMalformedResponse))
}

func TestFilterTiers(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{body: directoryJSON}
	nodes, err := CurlFetcher{URL: "u", Runner: runner}.Fetch(context.Background())
	require.NoError(t, err)

	assert.Len(t, FilterTiers(nodes, []string{"gateway"}), 1)
	assert.Empty(t, FilterTiers(nodes, nil))
}
