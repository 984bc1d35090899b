package ircfmt

import (
	"regexp"
	"strings"

	"github.com/qaisjp/go-chat-markup/markup"
)

// The human-readable template syntax is operator-authored configuration,
// so malformed tokens stay literal text instead of failing.

var (
	colorTokenRegex   *regexp.Regexp
	rainbowTokenRegex = regexp.MustCompile(`\$RAINBOW\(([^)]+)\)`)
)

func init() {
	names := make([]string, 0, markup.NumColorCodes)
	for i := 0; i < markup.NumColorCodes; i++ {
		names = append(names, markup.ColorCode(i).Name())
	}
	alternatives := `\d{1,2}|` + strings.Join(names, "|")
	colorTokenRegex = regexp.MustCompile(
		`\$COLOR(\((` + alternatives + `)(,(` + alternatives + `))?\))?`)
}

func humanColorCode(s string) (markup.ColorCode, bool) {
	if s == "" {
		return markup.White, false
	}
	if s[0] >= '0' && s[0] <= '9' {
		code, err := markup.ParseIrcColor(s)
		return code, err == nil
	}
	return markup.ColorByName(s)
}

func substituteColorToken(match string) string {
	groups := colorTokenRegex.FindStringSubmatch(match)
	fg, haveFg := humanColorCode(groups[2])
	bg, haveBg := humanColorCode(groups[4])
	out := string(CharColor)
	if haveFg {
		out += fg.Irc()
		if haveBg {
			out += "," + bg.Irc()
		}
	}
	return out
}

// FromHumanReadable converts template tokens ($COLOR(...), $RAINBOW(...),
// $BOLD, $ITALIC, $UNDERLINE, $NOFORMAT) to raw IRC control codes.
func FromHumanReadable(text string) string {
	text = colorTokenRegex.ReplaceAllStringFunc(text, substituteColorToken)
	text = rainbowTokenRegex.ReplaceAllStringFunc(text, func(match string) string {
		inner := rainbowTokenRegex.FindStringSubmatch(match)[1]
		return RainbowString(inner)
	})
	text = strings.ReplaceAll(text, "$UNDERLINE", string(CharUnderline))
	text = strings.ReplaceAll(text, "$BOLD", string(CharBold))
	text = strings.ReplaceAll(text, "$ITALIC", string(CharItalics))
	text = strings.ReplaceAll(text, "$NOFORMAT", string(CharReset))
	return text
}

// ParseHumanReadable decodes a human-readable template line into native
// markup nodes by running the token substitution through the IRC
// decoder.
func ParseHumanReadable(text string) markup.Node {
	return Parse(FromHumanReadable(text), true)
}

// Legacy string helpers for callers that build IRC lines directly.

// BoldString makes text bold.
func BoldString(text string) string {
	return string(CharBold) + text + string(CharBold)
}

// ItalicString makes text italic.
func ItalicString(text string) string {
	return string(CharItalics) + text + string(CharItalics)
}

// UnderlinedString underlines text.
func UnderlinedString(text string) string {
	return string(CharUnderline) + text + string(CharUnderline)
}

// ColoredString colors text with a foreground palette entry.
func ColoredString(text string, fg markup.ColorCode) string {
	return string(CharColor) + fg.Irc() + text + string(CharColor)
}

// ColoredStringBg colors text with foreground and background palette
// entries.
func ColoredStringBg(text string, fg, bg markup.ColorCode) string {
	return string(CharColor) + fg.Irc() + "," + bg.Irc() + text + string(CharColor)
}

// RainbowString colors text so each character steps through the rainbow
// palette, emitting a color code only when the color changes.
func RainbowString(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	var out strings.Builder
	current, haveCurrent := markup.White, false
	for i, ch := range runes {
		code := markup.RainbowColor(float64(i) / float64(len(runes)))
		if !haveCurrent || code != current {
			out.WriteRune(CharColor)
			out.WriteString(code.Irc())
			current, haveCurrent = code, true
		}
		out.WriteRune(ch)
	}
	out.WriteRune(CharColor)
	return out.String()
}
