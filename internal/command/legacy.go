package command

import "strings"

// Legacy LMS-style phrase handling. Third-party control surfaces send a
// player ID plus a list of words; the joined phrase is matched against a
// fixed table. The protocol's whole contract is "success" for a
// recognized phrase and "command not supported" for everything else, so
// malformed phrases (missing argument tokens included) map to
// ErrNotSupported instead of crashing the request.

// exactPhrases maps full phrases to their capability name.
var exactPhrases = map[string]string{
	"play":              "play",
	"pause":             "pause",
	"stop":              "stop",
	"next":              "next",
	"previous":          "previous",
	"playlist index +1": "next",
	"playlist index -1": "previous",
	"button volup":      "volumeUp",
	"button voldown":    "volumeDown",
	"button power":      "powerToggle",
}

// ParsePhrase normalizes a legacy phrase into a Command. The function is
// total: unmatched and malformed phrases return ErrNotSupported, never a
// panic.
func ParsePhrase(playerID string, words []string) (Command, error) {
	if playerID == "" {
		return Command{}, ErrMalformedFrame
	}
	phrase := strings.Join(words, " ")
	if phrase == "" {
		return Command{}, ErrNotSupported
	}

	if name, ok := exactPhrases[phrase]; ok {
		return Command{PlayerID: playerID, Name: name}, nil
	}

	switch {
	case phrase == "mixer muting 1":
		return withArg(playerID, "volumeMute", "1"), nil
	case phrase == "mixer muting 0":
		return withArg(playerID, "volumeMute", "0"), nil
	case strings.Contains(phrase, "mixer volume"):
		// the third word is the volume level
		if len(words) < 3 {
			return Command{}, ErrNotSupported
		}
		return withArg(playerID, "volumeSet", words[2]), nil
	case strings.Contains(phrase, "power"):
		if len(words) > 1 {
			return withArg(playerID, "power", words[1]), nil
		}
		return Command{PlayerID: playerID, Name: "power"}, nil
	}

	return Command{}, ErrNotSupported
}

func withArg(playerID, name, arg string) Command {
	return Command{PlayerID: playerID, Name: name, Arg: &arg}
}
