package persistence

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/riteshk28/Lighthouse/pkg/httputil"
)

// Paths of the load/save endpoints served by internal/api.
const (
	LoadPath = "/api/get-data"
	SavePath = "/api/save-data"
)

// RemoteGateway persists through the HTTP endpoints of another instance.
type RemoteGateway struct {
	client  *httputil.Client
	baseURL string
}

// NewRemoteGateway creates a gateway for the instance at baseURL.
func NewRemoteGateway(client *httputil.Client, baseURL string) *RemoteGateway {
	return &RemoteGateway{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Load fetches the remote blob. An empty object means nothing is saved.
func (g *RemoteGateway) Load(ctx context.Context) ([]byte, error) {
	body, err := g.client.GetBytes(ctx, g.baseURL+LoadPath)
	if err != nil {
		return nil, fmt.Errorf("remote load: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) {
		return nil, ErrNotFound
	}
	return body, nil
}

// Save posts the blob.
func (g *RemoteGateway) Save(ctx context.Context, blob []byte) error {
	if _, err := g.client.PostJSONBytes(ctx, g.baseURL+SavePath, blob); err != nil {
		return fmt.Errorf("remote save: %w", err)
	}
	return nil
}

// Close releases nothing.
func (g *RemoteGateway) Close() error {
	return nil
}
