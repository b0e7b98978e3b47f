package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
)

func factoryBlob(t *testing.T) []byte {
	t.Helper()
	blob, err := contracts.EncodeState(defaults.Factory())
	require.NoError(t, err)
	return blob
}
