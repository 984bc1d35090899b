package ircfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qaisjp/go-chat-markup/markup"
)

func TestFormatSimpleString(t *testing.T) {
	assert.Equal(t, "foo", Format(markup.Text("foo")))
	assert.Equal(t, "foo", Format(markup.NewRoot(markup.Text("foo"))))
}

func TestFormatToggles(t *testing.T) {
	assert.Equal(t, "\x02foo\x02", Format(markup.NewRoot(markup.Bold(markup.Text("foo")))))
	assert.Equal(t, "\x1dfoo\x1d", Format(markup.NewRoot(markup.Italic(markup.Text("foo")))))
	assert.Equal(t, "\x1ffoo\x1f", Format(markup.NewRoot(markup.Underlined(markup.Text("foo")))))
	assert.Equal(t, "\x1efoo\x1e", Format(markup.NewRoot(markup.Strike(markup.Text("foo")))))
}

func TestFormatBoolAttrs(t *testing.T) {
	span := markup.NewTag(markup.KindSpan, markup.Text("foo"))
	span.SetAttr(markup.AttrBold, true)
	assert.Equal(t, "\x02foo\x02", Format(markup.NewRoot(span)))
}

func TestFormatSimpleColor(t *testing.T) {
	tree := markup.NewRoot(markup.Colored(markup.Red, nil, markup.Text("foo")))
	assert.Equal(t, "\x0304foo\x03", Format(tree))

	tree = markup.NewRoot(markup.Colored(markup.Red, markup.Blue, markup.Text("foo")))
	assert.Equal(t, "\x0304,12foo\x03", Format(tree))
}

func TestFormatHexColorSnapsToPalette(t *testing.T) {
	tree := markup.NewRoot(markup.Colored(markup.HexColor("#ff0000"), nil, markup.Text("foo")))
	assert.Equal(t, "\x0304foo\x03", Format(tree))

	tree = markup.NewRoot(markup.Colored(markup.HexColor("#fe0000"), nil, markup.Text("foo")))
	assert.Equal(t, "\x0304foo\x03", Format(tree))

	tree = markup.NewRoot(markup.Colored(markup.HexColor("#e00"), nil, markup.Text("foo")))
	assert.Equal(t, "\x0304foo\x03", Format(tree))
}

func TestFormatBackgroundNeedsForeground(t *testing.T) {
	font := markup.NewTag(markup.KindFont, markup.Text("foo"))
	font.SetAttr(markup.AttrBackground, markup.Blue)
	assert.Equal(t, "foo", Format(markup.NewRoot(font)))
}

func TestFormatNewlines(t *testing.T) {
	assert.Equal(t, "foo\nbar", Format(markup.NewRoot(markup.Text("foo\nbar"))))
	assert.Equal(t, "foo\nbar",
		Format(markup.NewRoot(markup.Text("foo"), markup.Br(), markup.Text("bar"))))
	// A break before any visible output is dropped
	assert.Equal(t, "bar", Format(markup.NewRoot(markup.Br(), markup.Text("bar"))))
}

func TestFormatNewlineRestyles(t *testing.T) {
	tree := markup.NewRoot(markup.Text("foo"), markup.Bold(markup.Text("bar\nbaz")))
	assert.Equal(t, "foo\x02bar\n\x02baz\x02", Format(tree))

	tree = markup.NewRoot(markup.Text("foo"),
		markup.Bold(markup.Text("bar"), markup.Br(), markup.Text("baz")))
	assert.Equal(t, "foo\x02bar\n\x02baz\x02", Format(tree))

	tree = markup.NewRoot(markup.Bold(
		markup.Italic(markup.Text("bar"), markup.Br(), markup.Text("baz"))))
	assert.Equal(t, "\x02\x1dbar\n\x02\x1dbaz\x1d\x02", Format(tree))

	tree = markup.NewRoot(markup.Bold(markup.Br(), markup.Text("foo")))
	assert.Equal(t, "\x02foo\x02", Format(tree))

	tree = markup.NewRoot(markup.Colored(markup.Red, markup.Blue,
		markup.Text(" "), markup.Br(), markup.Text("foo")))
	assert.Equal(t, "\x0304,12 \n\x0304,12foo\x03", Format(tree))
}

func TestFormatDisplayBlocks(t *testing.T) {
	tree := markup.NewRoot(markup.Text("foo"),
		markup.NewTag(markup.KindPara, markup.Text("bar")), markup.Text("baz"))
	assert.Equal(t, "foo\nbar\nbaz", Format(tree))

	tree = markup.NewRoot(markup.NewTag(markup.KindDiv, markup.Text("bar")), markup.Text("baz"))
	assert.Equal(t, "bar\nbaz", Format(tree))

	// Trailing blank lines are trimmed
	tree = markup.NewRoot(markup.NewTag(markup.KindDiv, markup.Text("foo")))
	assert.Equal(t, "foo", Format(tree))
}

func TestFormatHeader(t *testing.T) {
	tree := markup.NewRoot(
		&markup.Tag{Kind: markup.KindHeader, Name: "h2", Children: []markup.Node{markup.Text("Title")}},
		markup.Text("body"))
	assert.Equal(t, "## Title\nbody", Format(tree))
}

func TestFormatSequentialTags(t *testing.T) {
	tree := markup.NewRoot(markup.Bold(markup.Text("foo")), markup.Italic(markup.Text("bar")))
	assert.Equal(t, "\x02foo\x02\x1dbar\x1d", Format(tree))

	tree = markup.NewRoot(markup.Bold(markup.Text("foo")), markup.Bold(markup.Text("bar")))
	assert.Equal(t, "\x02foo\x02\x02bar\x02", Format(tree))
}

func TestFormatNestedRepeatedTags(t *testing.T) {
	tree := markup.NewRoot(markup.Bold(markup.Bold(markup.Text("foo"))))
	assert.Equal(t, "\x02foo\x02", Format(tree))

	tree = markup.NewRoot(markup.Bold(
		markup.Bold(markup.Text("foo")), markup.Bold(markup.Text("bar"))))
	assert.Equal(t, "\x02foobar\x02", Format(tree))

	tree = markup.NewRoot(markup.Bold(
		markup.Italic(markup.Text("foo")), markup.Bold(markup.Text("bar"))))
	assert.Equal(t, "\x02\x1dfoo\x1dbar\x02", Format(tree))
}

func TestFormatNestedColorTags(t *testing.T) {
	// Inner tag repeats the outer color
	tree := markup.NewRoot(markup.Colored(markup.Red, nil,
		markup.Text("foo"), markup.Colored(markup.Red, nil, markup.Text("bar"))))
	assert.Equal(t, "\x0304foobar\x03", Format(tree))

	// Outer has fg and bg, inner only the same fg
	tree = markup.NewRoot(markup.Colored(markup.Red, markup.Blue,
		markup.Text("foo"), markup.Colored(markup.Red, nil, markup.Text("bar"))))
	assert.Equal(t, "\x0304,12foo\x0304bar\x03", Format(tree))

	// Outer has fg and bg, inner another fg
	tree = markup.NewRoot(markup.Colored(markup.Red, markup.Blue,
		markup.Text("foo"), markup.Colored(markup.Green, nil, markup.Text("bar")),
		markup.Text("baz")))
	assert.Equal(t, "\x0304,12foo\x0309bar\x0304baz\x03", Format(tree))

	// Outer has no bg, so leaving the inner tag must clear and re-emit
	tree = markup.NewRoot(markup.Colored(markup.Red, nil,
		markup.Text("foo"), markup.Colored(markup.Green, markup.Blue, markup.Text("bar")),
		markup.Text("spam")))
	assert.Equal(t, "\x0304foo\x0309,12bar\x03\x0304spam\x03", Format(tree))

	// Same, but with no text after the inner tag
	tree = markup.NewRoot(markup.Colored(markup.Red, nil,
		markup.Text("foo"), markup.Colored(markup.Red, markup.Blue, markup.Text("bar"))))
	assert.Equal(t, "\x0304foo\x0304,12bar\x03\x0304\x03", Format(tree))
}

func TestFormatRainbow(t *testing.T) {
	tree := markup.NewRoot(markup.Rainbow(markup.Text("abcdef")))
	assert.Equal(t, "\x0304a\x0307b\x0309c\x0311d\x0312e\x0313f\x03", Format(tree))
}

func TestFormatNestedRainbow(t *testing.T) {
	tree := markup.NewRoot(markup.Rainbow(markup.Text("abc"), markup.Bold(markup.Text("def"))))
	assert.Equal(t, "\x0304a\x0307b\x0309c\x02\x0311d\x0312e\x0313f\x02\x03", Format(tree))

	// Rainbow inhibits inner color information
	tree = markup.NewRoot(markup.Rainbow(markup.Text("abc"),
		markup.Colored(markup.Green, nil, markup.Text("def"))))
	assert.Equal(t, "\x0304a\x0307b\x0309c\x0311d\x0312e\x0313f\x03", Format(tree))
}

func TestFormatRainbowInColoredBlock(t *testing.T) {
	// Surrounding color differs from both rainbow ends
	tree := markup.NewRoot(markup.Colored(markup.Green, nil,
		markup.Text("foo "), markup.Rainbow(markup.Text("abcdef")), markup.Text(" bar")))
	assert.Equal(t,
		"\x0309foo \x0304a\x0307b\x0309c\x0311d\x0312e\x0313f\x0309 bar\x03",
		Format(tree))

	// Surrounding color equals the rainbow start
	tree = markup.NewRoot(markup.Colored(markup.Red, nil,
		markup.Text("foo "), markup.Rainbow(markup.Text("abcdef")), markup.Text(" bar")))
	assert.Equal(t,
		"\x0304foo a\x0307b\x0309c\x0311d\x0312e\x0313f\x0304 bar\x03",
		Format(tree))

	// Surrounding color equals the rainbow end
	tree = markup.NewRoot(markup.Colored(markup.Magenta, nil,
		markup.Text("foo "), markup.Rainbow(markup.Text("abcdef")), markup.Text(" bar")))
	assert.Equal(t,
		"\x0313foo \x0304a\x0307b\x0309c\x0311d\x0312e\x0313f bar\x03",
		Format(tree))
}

func TestFormatAnchor(t *testing.T) {
	tree := markup.NewRoot(markup.Link("example.com", markup.Text("foo")))
	assert.Equal(t, "foo (example.com)", Format(tree))

	tree = markup.NewRoot(markup.Text("foo"),
		markup.Link("example.com", markup.Bold(markup.Text("foo"))))
	assert.Equal(t, "foo\x02foo\x02 (example.com)", Format(tree))

	tree = markup.NewRoot(markup.Text("foo"),
		markup.Bold(markup.Link("example.com", markup.Text("foo"))))
	assert.Equal(t, "foo\x02foo (example.com)\x02", Format(tree))
}

func TestFormatFilledSlots(t *testing.T) {
	tmpl := markup.NewRoot(markup.Text("foo"),
		markup.Bold(markup.Slot("slt"), markup.Text("bar")))
	tree := markup.FillSlots(tmpl, map[string]interface{}{"slt": " "})
	assert.Equal(t, "foo\x02 bar\x02", Format(tree))

	// Unfilled slots render as empty text
	assert.Equal(t, "foo\x02bar\x02", Format(tmpl))
}

func TestFormatDeferredColorAttr(t *testing.T) {
	deferred := &markup.Tag{Kind: markup.KindRoot, Children: []markup.Node{markup.Slot("slt")}}
	font := markup.NewTag(markup.KindFont, markup.Text("foo"))
	font.SetAttr(markup.AttrColor, deferred)
	tmpl := markup.NewRoot(font)

	tree := markup.FillSlots(tmpl, map[string]interface{}{"slt": "red"})
	assert.Equal(t, "\x0304foo\x03", Format(tree))

	tree = markup.FillSlots(tmpl, map[string]interface{}{"slt": markup.Red})
	assert.Equal(t, "\x0304foo\x03", Format(tree))
}

func TestFormatRainbowWithSlot(t *testing.T) {
	tmpl := markup.NewRoot(markup.Rainbow(markup.Text("abc"), markup.Slot("slt")))
	tree := markup.FillSlots(tmpl, map[string]interface{}{"slt": "def"})
	assert.Equal(t, "\x0304a\x0307b\x0309c\x0311d\x0312e\x0313f\x03", Format(tree))
}
