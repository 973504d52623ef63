package chat

import "strings"

// The assistant appends out-of-band instructions to its reply after a
// literal "||" separator, e.g.:
//
//	resposta sobre a CLT||YOUTUBE::l-p5IBSs3s8||SIGNUP
//
// The first field is always display text; later fields are directive
// tokens. Unknown tokens are ignored so the format can grow without
// breaking older parsers.
const (
	directiveSeparator = "||"
	youtubePrefix      = "YOUTUBE::"
	signupToken        = "SIGNUP"
)

// Directives is the result of splitting a finalized reply into its
// display text and extracted attributes.
type Directives struct {
	Text             string
	YouTubeID        string
	ShowSignUpButton bool

	// Found reports whether a separator was present at all. When false,
	// Text is the input unchanged.
	Found bool
}

// ParseDirectives scans a complete reply for trailing directive tokens.
// Input without a separator comes back untouched.
func ParseDirectives(raw string) Directives {
	parts := strings.Split(raw, directiveSeparator)
	if len(parts) == 1 {
		return Directives{Text: raw}
	}

	d := Directives{
		Text:  strings.TrimSpace(parts[0]),
		Found: true,
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, youtubePrefix):
			d.YouTubeID = strings.Split(part, "::")[1]
		case part == signupToken:
			d.ShowSignUpButton = true
		}
	}
	return d
}
