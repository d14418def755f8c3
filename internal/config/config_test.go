package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{APIBase: "http://localhost:8000/api/"}
	ApplyDefaults(&cfg)

	if cfg.APIBase != "http://localhost:8000/api" {
		t.Fatalf("api_base=%q", cfg.APIBase)
	}
	if cfg.DaysActive != DefaultDaysActive || cfg.PageSize != DefaultPageSize {
		t.Fatalf("days_active=%d page_size=%d", cfg.DaysActive, cfg.PageSize)
	}
	if cfg.TelemetryPort != 67 || cfg.Timeout != 10*time.Second {
		t.Fatalf("telemetry_port=%d timeout=%s", cfg.TelemetryPort, cfg.Timeout)
	}
	assert.Equal(t, []string{"ROUTER", "ROUTER_LATE", "REPEATER"}, cfg.RouterRoles)
	assert.Equal(t, []string{"core_router", "supplemental"}, cfg.ExportTiers)
	assert.Equal(t, FetcherHTTP, cfg.DirectoryFetcher)

	cfg.RouterRoles[0] = "CHANGED"
	assert.Equal(t, "ROUTER", DefaultRouterRoles[0])
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	ApplyDefaults(&cfg)
	require.NoError(t, Validate(cfg))

	cfg.DaysActive = -1
	cfg.PageSize = -5
	cfg.DirectoryFetcher = "wget"
	cfg.LogLevel = "loud"
	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "4 errors occurred")
	assert.Contains(t, msg, "days_active")
	assert.Contains(t, msg, "page_size")
	assert.Contains(t, msg, "directory_fetcher")
	assert.Contains(t, msg, "loud")
}

func TestSave_Writes0600(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "conf", "meshstat.yaml")
	if err := Save(path, Config{DaysActive: 5}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%o", info.Mode().Perm())
	}

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DaysActive)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
}

func TestLoad_FileValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "meshstat.yaml")
	data := []byte(`api_base: http://meshview.local/api
days_active: 7
router_roles: [ROUTER, CLIENT_MUTE]
page_size: 20
timeout: 3s
directory_fetcher: curl
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://meshview.local/api", cfg.APIBase)
	assert.Equal(t, 7, cfg.DaysActive)
	assert.Equal(t, []string{"ROUTER", "CLIENT_MUTE"}, cfg.RouterRoles)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, FetcherCurl, cfg.DirectoryFetcher)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

// Not parallel: mutates the process environment.
func TestLoad_EnvAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("days_active: 7\npage_size: 20\n"), 0o600))

	t.Setenv("MESHSTAT_PAGE_SIZE", "50")
	t.Setenv("MESHSTAT_ROUTER_ROLES", "ROUTER, REPEATER")
	t.Setenv("MESHSTAT_TIMEOUT", "2s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("days", 0, "")
	flags.Int("page-size", 0, "")
	require.NoError(t, flags.Parse([]string{"--days", "1"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.DaysActive)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, []string{"ROUTER", "REPEATER"}, cfg.RouterRoles)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}
