package directory

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"meshstat/internal/api"
	"meshstat/internal/execx"
	"meshstat/internal/model"
)

// DefaultCurlTimeout bounds the curl process when the context has no deadline.
const DefaultCurlTimeout = 30 * time.Second

// Fetcher loads the node directory.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.DirectoryNode, error)
}

// HTTPFetcher fetches the directory with the API client. The client's base
// URL is the full directory URL.
type HTTPFetcher struct {
	Client *api.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context) ([]model.DirectoryNode, error) {
	var entries []api.DirectoryEntry
	if err := f.Client.GetJSON(ctx, "", nil, &entries); err != nil {
		return nil, errors.Wrap(err, "fetch directory")
	}
	return toNodes(entries), nil
}

// CurlFetcher downloads the directory with the curl binary into a temp file.
// Some hosts sit behind a firewall that rejects Go's default client.
type CurlFetcher struct {
	URL     string
	Runner  execx.Runner
	Timeout time.Duration
	Log     logrus.FieldLogger
}

func (f CurlFetcher) Fetch(ctx context.Context) ([]model.DirectoryNode, error) {
	tmp, err := os.CreateTemp("", "meshstat-directory-*.json")
	if err != nil {
		return nil, errors.Wrap(err, "create temp file")
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultCurlTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if f.Log != nil {
		f.Log.WithField("url", f.URL).Debug("fetching directory with curl")
	}
	if err := f.Runner.Run(ctx, "curl", "-s", "-o", path, f.URL); err != nil {
		return nil, errors.Wrap(err, "fetch directory")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open directory download")
	}
	defer file.Close()

	var entries []api.DirectoryEntry
	if err := api.Decode(file, &entries); err != nil {
		return nil, errors.Wrap(err, "decode directory")
	}
	return toNodes(entries), nil
}

func toNodes(entries []api.DirectoryEntry) []model.DirectoryNode {
	nodes := make([]model.DirectoryNode, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, e.Node())
	}
	return nodes
}
