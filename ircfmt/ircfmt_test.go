package ircfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var msg = "Hello, \x02Wor\x1dld\x0304,07\x1d! \x1dMy name is\x1d\x0f... \x1fFirst\x1f Last. \x1eStruck\x1e \x11mono\x11 \x042A7FFFhex\x04 And \x16reverse\x16!"

func TestStripCodes(t *testing.T) {
	assert.Equal(t,
		"Hello, World! My name is... First Last. Struck mono hex And reverse!",
		StripCodes(msg))
}

func TestStripColor(t *testing.T) {
	assert.Equal(t,
		"Hello, \x02Wor\x1dld\x1d! \x1dMy name is\x1d\x0f... \x1fFirst\x1f Last. \x1eStruck\x1e \x11mono\x11 hex\x04 And \x16reverse\x16!",
		StripColor(msg))
}

func TestStripCodesBareColorKeepsComma(t *testing.T) {
	// A comma after a bare \x03 is visible text, same as the scanner.
	assert.Equal(t, ",04foo", StripCodes("\x03,04foo"))
	assert.Equal(t, ",04foo", StripColor("\x03,04foo"))
}

func TestStripCodesRoundTrip(t *testing.T) {
	tree := Parse(msg, false)
	assert.Equal(t, StripCodes(msg), Format(Parse(StripCodes(msg), false)))
	assert.NotNil(t, tree)
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		"\x02bold\x02 tail",
		"\x02foo\x1fbar\x02baz",
		"\x1dita\x1elic\x1d\x1e",
		"\x0304red",
		"\x0312,01foo\x0304bar",
		"\x0304foo\x0304,12bar\x03",
		"\x02\x0307orange bold\x0f plain",
		"\x04FF0000foo,more",
		"\x042A7FFFa\x1fb\x1fc",
	}
	for _, in := range inputs {
		tree := Parse(in, false)
		encoded := Format(tree)
		// Decoding what the encoder produced restores the same tree.
		assert.Equal(t, tree, Parse(encoded, false), "input %q", in)
		// Re-encoding a decoded output changes nothing further.
		assert.Equal(t, encoded, Format(Parse(encoded, false)), "input %q", in)
	}
}
