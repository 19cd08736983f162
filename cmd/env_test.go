package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "x"}
	addRangeFlags(cmd)
	return cmd
}

func TestParseRange_Explicit(t *testing.T) {
	cmd := rangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "2025-06-01"))
	require.NoError(t, cmd.Flags().Set("end", "2025-06-30"))

	r, err := parseRange(cmd)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01..2025-06-30", r.String())
}

func TestParseRange_DefaultsValid(t *testing.T) {
	r, err := parseRange(rangeCmd())
	require.NoError(t, err)
	assert.True(t, r.IsValid())
}

func TestParseRange_BadDate(t *testing.T) {
	cmd := rangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "June 1st"))

	_, err := parseRange(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse --start")
}

func TestParseRange_Inverted(t *testing.T) {
	cmd := rangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "2025-07-01"))
	require.NoError(t, cmd.Flags().Set("end", "2025-06-01"))

	_, err := parseRange(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start after end")
}
