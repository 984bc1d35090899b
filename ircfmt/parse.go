package ircfmt

import (
	"regexp"

	"github.com/qaisjp/go-chat-markup/markup"
)

var urlRegex = regexp.MustCompile(`(((https?)|(ftps?)|(sftp))://[^\s"')]+)`)

type ircParser struct {
	root     *markup.Tag
	open     []*markup.Tag
	linkURLs bool
}

func (p *ircParser) top() *markup.Tag {
	if len(p.open) == 0 {
		return p.root
	}
	return p.open[len(p.open)-1]
}

func (p *ircParser) push(t *markup.Tag) {
	p.top().Add(t)
	p.open = append(p.open, t)
}

// closeKind removes the nearest open tag of the given kind from the open
// stack and reconstructs any still-open tags that were nested inside it,
// so e.g. ending bold while underline is open keeps underline active in
// a fresh tag outside the closed bold scope. Reports whether a tag of
// that kind was open at all.
func (p *ircParser) closeKind(kind markup.TagKind) bool {
	idx := -1
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].Kind == kind {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	reopen := append([]*markup.Tag(nil), p.open[idx+1:]...)
	p.open = p.open[:idx]
	for _, old := range reopen {
		fresh := &markup.Tag{Kind: old.Kind, Name: old.Name}
		for _, a := range old.Attrs {
			fresh.SetAttr(a.Name, a.Value)
		}
		p.push(fresh)
	}
	return true
}

func (p *ircParser) toggle(kind markup.TagKind) {
	if !p.closeKind(kind) {
		p.push(markup.NewTag(kind))
	}
}

// openFont returns the innermost open font tag, if any.
func (p *ircParser) openFont() *markup.Tag {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].Kind == markup.KindFont {
			return p.open[i]
		}
	}
	return nil
}

func (p *ircParser) setColor(fg markup.ColorCode, bg interface{}, haveBg bool) {
	if !haveBg {
		// A foreground-only color token never touches the background.
		if f := p.openFont(); f != nil {
			if v, ok := f.Attr(markup.AttrBackground); ok {
				bg, haveBg = v, true
			}
		}
	}
	p.closeKind(markup.KindFont)
	tag := markup.NewTag(markup.KindFont).SetAttr(markup.AttrColor, fg)
	if haveBg {
		tag.SetAttr(markup.AttrBackground, bg)
	}
	p.push(tag)
}

// addText appends a text leaf, merging with an adjacent text sibling so
// stripped control codes leave no artificial splits behind.
func (p *ircParser) addText(text string) {
	t := p.top()
	if n := len(t.Children); n > 0 {
		if prev, ok := t.Children[n-1].(markup.Text); ok {
			t.Children[n-1] = prev + markup.Text(text)
			return
		}
	}
	t.Add(markup.Text(text))
}

func (p *ircParser) flush(text string) {
	if text == "" {
		return
	}
	if !p.linkURLs {
		p.addText(text)
		return
	}
	start := 0
	for _, m := range urlRegex.FindAllStringIndex(text, -1) {
		if m[0] > start {
			p.addText(text[start:m[0]])
		}
		link := text[m[0]:m[1]]
		p.top().Add(markup.Link(link, markup.Text(link)))
		start = m[1]
	}
	if start < len(text) {
		p.addText(text[start:])
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// readColorCode consumes up to two decimal digits starting at i.
func readColorCode(text string, i int) (string, int) {
	j := i
	for j < len(text) && j-i < 2 && isDigit(text[j]) {
		j++
	}
	return text[i:j], j
}

// colorToken handles the byte sequence after a 0x03: an optional one or
// two digit foreground and an optional ",bb" background. No digits at
// all clears the current color.
func (p *ircParser) colorToken(text string, i int) int {
	fgDigits, i := readColorCode(text, i)
	if fgDigits == "" {
		p.closeKind(markup.KindFont)
		return i
	}
	var bg interface{}
	haveBg := false
	if i < len(text) && text[i] == ',' {
		if digits, j := readColorCode(text, i+1); digits != "" {
			code, _ := markup.ParseIrcColor(digits)
			bg, haveBg = code, true
			i = j
		}
	}
	fg, _ := markup.ParseIrcColor(fgDigits)
	p.setColor(fg, bg, haveBg)
	return i
}

// hexColorToken handles the 0x04 extension: RRGGBB[,RRGGBB] hex colors,
// snapped to the nearest palette entry so decoded trees stay within the
// fixed color model.
func (p *ircParser) hexColorToken(text string, i int) int {
	readHex := func(i int) (string, int) {
		j := i
		for j < len(text) && j-i < 6 && isHexDigit(text[j]) {
			j++
		}
		return text[i:j], j
	}
	fgHex, j := readHex(i)
	if len(fgHex) != 6 {
		return i
	}
	i = j
	fg, err := markup.HexToColorCode("#" + fgHex)
	if err != nil {
		return i
	}
	var bg interface{}
	haveBg := false
	if i < len(text) && text[i] == ',' {
		if bgHex, j := readHex(i + 1); len(bgHex) == 6 {
			if code, err := markup.HexToColorCode("#" + bgHex); err == nil {
				bg, haveBg = code, true
				i = j
			}
		}
	}
	p.setColor(fg, bg, haveBg)
	return i
}

// Parse decodes an IRC control-code formatted line into a markup tree.
// When linkURLs is set, embedded URLs are wrapped in anchor tags. A line
// with no formatting at all comes back as a plain Text node.
func Parse(text string, linkURLs bool) markup.Node {
	p := &ircParser{root: markup.NewRoot(), linkURLs: linkURLs}
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		switch rune(c) {
		case CharBold, CharItalics, CharUnderline, CharStrikethrough,
			CharColor, CharHex, CharReset, CharMonospace, CharReverseColor:
			p.flush(text[start:i])
		default:
			i++
			continue
		}
		switch rune(c) {
		case CharBold:
			p.toggle(markup.KindBold)
			i++
		case CharItalics:
			p.toggle(markup.KindItalic)
			i++
		case CharUnderline:
			p.toggle(markup.KindUnderline)
			i++
		case CharStrikethrough:
			p.toggle(markup.KindStrike)
			i++
		case CharColor:
			i = p.colorToken(text, i+1)
		case CharHex:
			i = p.hexColorToken(text, i+1)
		case CharReset:
			p.open = p.open[:0]
			i++
		default:
			// Monospace and reverse video are outside the style model.
			i++
		}
		start = i
	}
	p.flush(text[start:])
	if len(p.root.Children) == 1 {
		if t, ok := p.root.Children[0].(markup.Text); ok {
			return t
		}
	}
	return p.root
}
