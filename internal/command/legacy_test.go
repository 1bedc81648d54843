package command_test

import (
	"strings"
	"testing"

	"musichub/internal/command"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhraseTable(t *testing.T) {
	cases := []struct {
		phrase  string
		name    string
		arg     string // "" means no argument expected
	}{
		{"play", "play", ""},
		{"pause", "pause", ""},
		{"stop", "stop", ""},
		{"next", "next", ""},
		{"previous", "previous", ""},
		{"playlist index +1", "next", ""},
		{"playlist index -1", "previous", ""},
		{"mixer volume 37", "volumeSet", "37"},
		{"mixer muting 1", "volumeMute", "1"},
		{"mixer muting 0", "volumeMute", "0"},
		{"button volup", "volumeUp", ""},
		{"button voldown", "volumeDown", ""},
		{"button power", "powerToggle", ""},
		{"power on", "power", "on"},
		{"power", "power", ""},
	}

	for _, tc := range cases {
		t.Run(tc.phrase, func(t *testing.T) {
			cmd, err := command.ParsePhrase("p1", strings.Fields(tc.phrase))
			require.NoError(t, err)
			assert.Equal(t, "p1", cmd.PlayerID)
			assert.Equal(t, tc.name, cmd.Name)
			if tc.arg == "" {
				assert.Nil(t, cmd.Arg)
			} else {
				require.NotNil(t, cmd.Arg)
				assert.Equal(t, tc.arg, *cmd.Arg)
			}
		})
	}
}

func TestParsePhraseUnsupported(t *testing.T) {
	cases := [][]string{
		{"foobar"},
		{"playlist", "index", "+2"},
		{"mixer", "muting", "2"},
		{"button", "something"},
		{},
	}
	for _, words := range cases {
		_, err := command.ParsePhrase("p1", words)
		assert.ErrorIs(t, err, command.ErrNotSupported, "words %v", words)
	}
}

func TestParsePhraseMalformedMixerVolume(t *testing.T) {
	// missing level token must be reported, not panic
	_, err := command.ParsePhrase("p1", []string{"mixer", "volume"})
	assert.ErrorIs(t, err, command.ErrNotSupported)
}

func TestParsePhraseEmptyPlayer(t *testing.T) {
	_, err := command.ParsePhrase("", []string{"play"})
	assert.ErrorIs(t, err, command.ErrMalformedFrame)
}
