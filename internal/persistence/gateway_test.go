package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

func TestOpen_Backends(t *testing.T) {
	tests := []struct {
		name    string
		store   config.StoreConfig
		wantTyp interface{}
	}{
		{"memory", config.StoreConfig{Backend: config.BackendMemory}, &MemoryGateway{}},
		{"file", config.StoreConfig{Backend: config.BackendFile, Dir: t.TempDir(), Prefix: "scorecard"}, &BlobGateway{}},
		{"sqlite", config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: t.TempDir() + "/s.db"}, &SQLGateway{}},
		{"remote", config.StoreConfig{Backend: config.BackendRemote, RemoteURL: "http://127.0.0.1:1"}, &RemoteGateway{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Store: tt.store}
			gw, err := Open(context.Background(), cfg, logger.Nop())
			require.NoError(t, err)
			defer gw.Close()

			assert.IsType(t, tt.wantTyp, gw)
		})
	}
}

func TestOpen_FileBackendRoundTrip(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendFile, Dir: t.TempDir(), Prefix: "scorecard"}}
	gw, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	blob := factoryBlob(t)
	require.NoError(t, gw.Save(context.Background(), blob))

	got, err := gw.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestOpen_Unsupported(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "floppy"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
