package ircfmt

import (
	"strings"
	"unicode/utf8"

	"github.com/qaisjp/go-chat-markup/markup"
)

// colorState is one side of the color pair; unset means "no color", not
// "inherit".
type colorState struct {
	code markup.ColorCode
	set  bool
}

// rstyle is a fully resolved formatting state.
type rstyle struct {
	underline, bold, italic, strike bool
	fg, bg                          colorState
}

func snapColor(c markup.Color) colorState {
	if c == nil {
		return colorState{}
	}
	code, err := markup.ClosestColorCode(c)
	if err != nil {
		return colorState{}
	}
	return colorState{code: code, set: true}
}

type rainbowState struct {
	tag   *markup.Tag
	total int
	index int
}

// ircFormatter is a single-pass depth-first visitor that renders a
// markup tree to IRC control codes. It tracks both the tree-resolved
// style stack and the color state the receiving client actually has, so
// tag exits emit only the minimal transition.
type ircFormatter struct {
	buf     strings.Builder
	styles  []rstyle
	eFg     colorState // receiver foreground
	eBg     colorState // receiver background
	visible bool
	rainbow *rainbowState
}

func (f *ircFormatter) current() rstyle {
	return f.styles[len(f.styles)-1]
}

func (f *ircFormatter) resolve(parent rstyle, t *markup.Tag) rstyle {
	own := markup.TagStyle(t)
	child := parent
	child.underline = own.Underline.Resolve(parent.underline)
	child.bold = own.Bold.Resolve(parent.bold)
	child.italic = own.Italic.Resolve(parent.italic)
	child.strike = own.Strike.Resolve(parent.strike)
	if t.HasColorAttrs() && f.rainbow == nil {
		child.fg = snapColor(own.Fg)
		child.bg = snapColor(own.Bg)
		if !child.fg.set {
			// A background alone cannot be expressed on the wire.
			child.bg = colorState{}
		}
	}
	return child
}

func (f *ircFormatter) emitToggles(from, to rstyle) {
	if from.underline != to.underline {
		f.buf.WriteRune(CharUnderline)
	}
	if from.bold != to.bold {
		f.buf.WriteRune(CharBold)
	}
	if from.italic != to.italic {
		f.buf.WriteRune(CharItalics)
	}
	if from.strike != to.strike {
		f.buf.WriteRune(CharStrikethrough)
	}
}

func (f *ircFormatter) writeColor(fg colorState, bg colorState) {
	f.buf.WriteRune(CharColor)
	f.buf.WriteString(fg.code.Irc())
	f.eFg = fg
	if bg.set {
		f.buf.WriteString("," + bg.code.Irc())
		f.eBg = bg
	}
}

// transitionColor moves the receiver's color state to target, clearing
// first when a set side has to be dropped.
func (f *ircFormatter) transitionColor(target rstyle) {
	if f.eFg == target.fg && f.eBg == target.bg {
		return
	}
	if !target.fg.set && !target.bg.set {
		f.buf.WriteRune(CharColor)
		f.eFg, f.eBg = colorState{}, colorState{}
		return
	}
	if (f.eBg.set && !target.bg.set) || (f.eFg.set && !target.fg.set) {
		f.buf.WriteRune(CharColor)
		f.eFg, f.eBg = colorState{}, colorState{}
	}
	if !target.fg.set {
		return
	}
	switch {
	case f.eFg != target.fg && target.bg.set && f.eBg != target.bg:
		f.writeColor(target.fg, target.bg)
	case f.eFg != target.fg:
		f.writeColor(target.fg, colorState{})
	case target.bg.set && f.eBg != target.bg:
		f.writeColor(target.fg, target.bg)
	}
}

// restyle re-emits the active style, used after a newline because IRC
// clients treat every line as a fresh formatting context.
func (f *ircFormatter) restyle() {
	style := f.current()
	f.emitToggles(rstyle{}, style)
	f.eFg, f.eBg = colorState{}, colorState{}
	if f.rainbow == nil && style.fg.set {
		f.writeColor(style.fg, style.bg)
	}
}

func (f *ircFormatter) newline() {
	if !f.visible {
		return
	}
	f.buf.WriteByte('\n')
	f.restyle()
}

func (f *ircFormatter) StartTag(t *markup.Tag) {
	parent := f.current()
	if t.Kind == markup.KindRoot {
		f.styles = append(f.styles, parent)
		return
	}
	switch t.Kind {
	case markup.KindBreak, markup.KindDiv, markup.KindPara:
		f.newline()
	case markup.KindHeader:
		f.newline()
	}
	child := f.resolve(parent, t)
	f.styles = append(f.styles, child)
	f.emitToggles(parent, child)
	if t.Kind == markup.KindRainbow && f.rainbow == nil {
		if total := countRunes(t); total > 0 {
			f.rainbow = &rainbowState{tag: t, total: total}
		}
		return
	}
	if t.HasColorAttrs() && f.rainbow == nil {
		if child.fg != parent.fg || child.bg != parent.bg {
			if child.fg.set {
				f.writeColor(child.fg, child.bg)
			}
		}
	}
	if t.Kind == markup.KindHeader {
		f.writeText(strings.Repeat("#", t.HeaderLevel()) + " ")
	}
}

func (f *ircFormatter) Data(text string) {
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		if i > 0 {
			f.newline()
		}
		f.writeText(part)
	}
}

func (f *ircFormatter) writeText(text string) {
	if text == "" {
		return
	}
	f.visible = true
	if f.rainbow == nil {
		f.buf.WriteString(text)
		return
	}
	for _, ch := range text {
		factor := float64(f.rainbow.index) / float64(f.rainbow.total)
		code := markup.RainbowColor(factor)
		if !f.eFg.set || f.eFg.code != code {
			f.buf.WriteRune(CharColor)
			f.buf.WriteString(code.Irc())
			f.eFg = colorState{code: code, set: true}
		}
		f.buf.WriteRune(ch)
		f.rainbow.index++
	}
}

func (f *ircFormatter) HandleSlot(name string) {
	// Unfilled slots render as empty text.
}

func (f *ircFormatter) EndTag(t *markup.Tag) {
	child := f.current()
	f.styles = f.styles[:len(f.styles)-1]
	if t.Kind == markup.KindRoot {
		return
	}
	parent := f.current()
	if t.Kind == markup.KindAnchor {
		if href, ok := t.Attr(markup.AttrHref); ok {
			f.writeText(" (" + markup.AttrString(href) + ")")
		}
	}
	f.emitToggles(child, parent)
	if f.rainbow != nil && f.rainbow.tag == t {
		f.rainbow = nil
		f.transitionColor(parent)
	} else if t.HasColorAttrs() && f.rainbow == nil {
		f.transitionColor(parent)
	}
	if t.Kind == markup.KindDiv || t.Kind == markup.KindPara || t.Kind == markup.KindHeader {
		f.newline()
	}
}

type runeCounter struct {
	n int
}

func (c *runeCounter) StartTag(t *markup.Tag)  {}
func (c *runeCounter) HandleSlot(name string)  {}
func (c *runeCounter) EndTag(t *markup.Tag)    {}
func (c *runeCounter) Data(text string) {
	c.n += utf8.RuneCountInString(text)
}

// countRunes pre-computes the visible length of a subtree, used to
// drive the per-character rainbow color cycle.
func countRunes(n markup.Node) int {
	c := &runeCounter{}
	markup.Walk(n, c)
	return c.n
}

// Format encodes a markup tree (slots already filled) to an IRC
// control-code string. Plain Text nodes pass through unchanged.
func Format(n markup.Node) string {
	if t, ok := n.(markup.Text); ok {
		return string(t)
	}
	f := &ircFormatter{styles: []rstyle{{}}}
	markup.Walk(n, f)
	return trimTrailingBlank(f.buf.String())
}

// trimTrailingBlank drops trailing lines that carry no visible content
// once control codes are stripped.
func trimTrailingBlank(s string) string {
	for {
		i := strings.LastIndexByte(s, '\n')
		if i == -1 || StripCodes(s[i+1:]) != "" {
			return s
		}
		s = s[:i]
	}
}
