package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
)

func TestWriteScorecard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScorecard(&buf, defaults.Factory(), false))

	out := buf.String()
	assert.Contains(t, out, "Core Web Vitals Scorecard:")
	assert.Contains(t, out, "Homepage")
	assert.Contains(t, out, "Orders")
	// headers are upper-cased by the table writer
	assert.Contains(t, strings.ToUpper(out), "LCP (S)")
	assert.Contains(t, out, "Best improvement : Cart TBT -450ms")
	assert.Contains(t, out, "Worst regression : Landing Page TBT +30ms")
	assert.NotContains(t, out, "\x1b[", "no escape codes without colors")
}

func TestWriteScorecard_Empty(t *testing.T) {
	var buf bytes.Buffer
	st := contracts.State{Units: contracts.DefaultUnitOverrides()}
	require.NoError(t, writeScorecard(&buf, st, false))
	assert.Contains(t, buf.String(), "Best improvement : n/a")
}
