package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/ytmp3/internal/config"
	"github.com/handiism/ytmp3/internal/download"
)

func execArgs(t *testing.T, args ...string) (int, string) {
	t.Helper()
	color.NoColor = true

	cmd, _ := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return execute(context.Background(), cmd), out.String()
}

func TestExecute_UsageErrors(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "config.json")

	tests := []struct {
		name string
		args []string
	}{
		{"missing url", []string{}},
		{"two urls", []string{"a", "b"}},
		{"unknown flag", []string{"--nope", "abc"}},
		{"bitrate too high", []string{"-c", absent, "-b", "500", "abc"}},
		{"bitrate too low", []string{"-c", absent, "--bitrate", "16", "abc"}},
		{"bitrate zero", []string{"-c", absent, "-b", "0", "abc"}},
		{"blank separator", []string{"-c", absent, "-s", "", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := execArgs(t, tt.args...)
			assert.Equal(t, download.ExitUsage, code, out)
			assert.Contains(t, out, "error:")
			assert.Contains(t, out, "Usage:")
		})
	}
}

func TestApply(t *testing.T) {
	cmd, f := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-l", "-s", "|", "-s", "~", "-b", "192", "-k", "-p", "mix.pls", "--no-lookup", "--no-artwork"}))

	s := config.DefaultSettings()
	require.NoError(t, f.apply(cmd, s))

	assert.True(t, s.LowQuality)
	assert.Equal(t, []string{"|", "~"}, s.Separators)
	assert.Equal(t, 192, s.Bitrate)
	assert.True(t, s.KeepVideo)
	assert.False(t, s.Intermediate, "unset flags keep the configured value")
	assert.Equal(t, "mix.pls", s.Playlist)
	assert.False(t, s.LookupEnabled)
	assert.False(t, s.EmbedArtwork)
	require.NoError(t, s.Validate())
}

func TestApply_UnchangedFlagsKeepSettings(t *testing.T) {
	cmd, f := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	s := config.DefaultSettings()
	s.Bitrate = 256
	s.Separators = []string{"::"}

	require.NoError(t, f.apply(cmd, s))
	assert.Equal(t, 256, s.Bitrate)
	assert.Equal(t, []string{"::"}, s.Separators)
	assert.True(t, s.LookupEnabled)
}

func TestApply_ExplicitBitrateOutOfRange(t *testing.T) {
	for _, arg := range []string{"0", "31", "321"} {
		t.Run(arg, func(t *testing.T) {
			cmd, f := newRootCmd()
			require.NoError(t, cmd.ParseFlags([]string{"-b", arg}))

			s := config.DefaultSettings()
			err := f.apply(cmd, s)

			var verr *config.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, download.ExitUsage, download.ExitCode(err))
			assert.Zero(t, s.Bitrate, "rejected bitrate is not applied")
		})
	}
}
