// Package ircfmt converts between IRC control-code formatted text and
// markup trees, and renders operator-authored human-readable templates.
package ircfmt

import (
	"regexp"
	"strings"
)

// Chars includes all the codes defined in https://modern.ircdocs.horse/formatting.html
const (
	CharBold          rune = '\x02'
	CharItalics            = '\x1D'
	CharUnderline          = '\x1F'
	CharStrikethrough      = '\x1E'
	CharMonospace          = '\x11'
	CharColor              = '\x03'
	CharHex                = '\x04'
	CharReverseColor       = '\x16'
	CharReset              = '\x0F'
)

// A background code only follows a foreground code; a comma after a bare
// \x03 is visible text, matching what the scanner in parse.go keeps.
var colorRegex = regexp.MustCompile(`\x03(?:\d\d?(?:,\d\d?)?)?`)
var hexColorRegex = regexp.MustCompile(`\x04[0-9a-fA-F]{6}(?:,[0-9a-fA-F]{6})?`)

var replacer = strings.NewReplacer(
	string(CharBold), "",
	string(CharItalics), "",
	string(CharUnderline), "",
	string(CharStrikethrough), "",
	string(CharMonospace), "",
	string(CharColor), "",
	string(CharHex), "",
	string(CharReverseColor), "",
	string(CharReset), "",
)

// StripCodes removes all formatting codes from an IRC line, leaving only
// the visible text.
func StripCodes(text string) string {
	return replacer.Replace(stripColorCodes(text))
}

// StripColor removes only color codes, leaving other formatting intact.
func StripColor(text string) string {
	return stripColorCodes(text)
}

func stripColorCodes(text string) string {
	return hexColorRegex.ReplaceAllString(colorRegex.ReplaceAllString(text, ""), "")
}
