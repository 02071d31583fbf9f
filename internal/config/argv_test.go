package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgvBasicSplitting(t *testing.T) {
	argv, err := parseArgv("wl-copy --trim-newline")
	require.NoError(t, err)
	require.Equal(t, []string{"wl-copy", "--trim-newline"}, argv)
}

func TestParseArgvQuotesAndEscapes(t *testing.T) {
	argv, err := parseArgv(`notify-send "two words" it\'s`)
	require.NoError(t, err)
	require.Equal(t, []string{"notify-send", "two words", "it's"}, argv)
}

func TestParseArgvEmptyAndComment(t *testing.T) {
	argv, err := parseArgv("   ")
	require.NoError(t, err)
	require.Nil(t, argv)

	argv, err = parseArgv("# disabled")
	require.NoError(t, err)
	require.Nil(t, argv)
}

func TestParseArgvUnterminatedQuote(t *testing.T) {
	_, err := parseArgv(`echo "unterminated`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated quote")
}

func TestParseArgvUnterminatedEscape(t *testing.T) {
	_, err := parseArgv(`echo trailing\`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated escape")
}
