package persistence

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/httputil"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// fakeInstance mimics the load/save endpoints of a running server.
type fakeInstance struct {
	mu     sync.Mutex
	stored []byte
	fail   bool
}

func (f *fakeInstance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to load data"}`))
		return
	}

	switch r.URL.Path {
	case LoadPath:
		if f.stored == nil {
			w.Write([]byte(`{}`))
			return
		}
		w.Write(f.stored)
	case SavePath:
		body, _ := io.ReadAll(r.Body)
		f.stored = body
		w.Write([]byte(`{"ok":true}`))
	default:
		http.NotFound(w, r)
	}
}

func newRemote(t *testing.T, inst *fakeInstance) *RemoteGateway {
	t.Helper()
	server := httptest.NewServer(inst)
	t.Cleanup(server.Close)

	client := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	return NewRemoteGateway(client, server.URL+"/")
}

func TestRemoteGateway_RoundTrip(t *testing.T) {
	inst := &fakeInstance{}
	gw := newRemote(t, inst)
	ctx := context.Background()

	_, err := gw.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "empty object means nothing saved")

	blob := factoryBlob(t)
	require.NoError(t, gw.Save(ctx, blob))

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
	assert.NoError(t, gw.Close())
}

func TestRemoteGateway_ServerError(t *testing.T) {
	gw := newRemote(t, &fakeInstance{fail: true})

	_, err := gw.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	var statusErr *httputil.StatusError
	assert.ErrorAs(t, err, &statusErr)

	assert.Error(t, gw.Save(context.Background(), []byte(`{}`)))
}
