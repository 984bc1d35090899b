package markup

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ErrInvalidColorFormat is returned for hex strings that are not of the
// form "rgb" or "rrggbb" (an optional leading '#' is stripped).
var ErrInvalidColorFormat = errors.New("invalid color format")

// ErrInvalidColor is returned for color names that cannot be resolved.
var ErrInvalidColor = errors.New("invalid color definition")

// Color is either a fixed palette entry (ColorCode) or a literal hex
// string from HTML input (HexColor).
type Color interface {
	Hex() string
	isColor()
}

// ColorCode is one of the 16 fixed mIRC palette entries. The numeric
// values double as the IRC wire codes ("00".."15") and must never be
// reordered.
type ColorCode int

const (
	White ColorCode = iota
	Black
	DarkBlue
	DarkGreen
	Red
	DarkRed
	DarkMagenta
	DarkYellow
	Yellow
	Green
	DarkCyan
	Cyan
	Blue
	Magenta
	DarkGray
	Gray

	// NumColorCodes is the size of the fixed palette.
	NumColorCodes = 16
)

var colorNames = [NumColorCodes]string{
	"white", "black", "dark_blue", "dark_green", "red", "dark_red",
	"dark_magenta", "dark_yellow", "yellow", "green", "dark_cyan",
	"cyan", "blue", "magenta", "dark_gray", "gray",
}

// Canonical hex value per palette entry; a fixed wire-format contract.
var colorHex = [NumColorCodes]string{
	"#FFFFFF", "#000000", "#00007F", "#009300", "#FF0000", "#7F0000",
	"#9C009C", "#FC7F00", "#FFFF00", "#00FC00", "#009393", "#00FFFF",
	"#0000FC", "#FF00FF", "#7F7F7F", "#D2D2D2",
}

// Reverse direction of colorHex and the perceptual (Lab) palette,
// both built once at process start and immutable afterwards.
var (
	hexToCode  = make(map[string]ColorCode, NumColorCodes)
	paletteLab [NumColorCodes]colorful.Color
	nameToCode = make(map[string]ColorCode, NumColorCodes*2)
)

func init() {
	for i := 0; i < NumColorCodes; i++ {
		code := ColorCode(i)
		hexToCode[colorHex[i]] = code
		c, err := colorful.Hex(strings.ToLower(colorHex[i]))
		if err != nil {
			panic(errors.Wrap(err, "bad palette entry"))
		}
		paletteLab[i] = c
		nameToCode[colorNames[i]] = code
		nameToCode[strings.ReplaceAll(colorNames[i], "_", "")] = code
	}
	// HTML has no "darkyellow"; the palette entry renders as darkorange.
	delete(nameToCode, "darkyellow")
	nameToCode["darkorange"] = DarkYellow
}

func (ColorCode) isColor() {}

// Irc returns the two-digit IRC wire code, "00".."15".
func (c ColorCode) Irc() string {
	return fmt.Sprintf("%02d", int(c))
}

// Name returns the palette identifier, e.g. "dark_blue".
func (c ColorCode) Name() string {
	return colorNames[c]
}

// HTMLName returns the CSS color name used when rendering this palette
// entry to HTML or Matrix markup.
func (c ColorCode) HTMLName() string {
	if c == DarkYellow {
		return "darkorange"
	}
	return strings.ReplaceAll(colorNames[c], "_", "")
}

// Hex returns the canonical hex value, e.g. "#00007F".
func (c ColorCode) Hex() string {
	return colorHex[c]
}

func (c ColorCode) String() string {
	return c.Name()
}

// HexColor is an arbitrary RGB color from HTML input, kept verbatim
// ("#rgb" or "#rrggbb").
type HexColor string

func (HexColor) isColor() {}

// Hex returns the literal value as supplied.
func (c HexColor) Hex() string {
	return string(c)
}

// ParseIrcColor converts a one or two digit IRC color code to a palette
// entry. Codes above 15 wrap around modulo 16.
func ParseIrcColor(digits string) (ColorCode, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return White, errors.Wrapf(ErrInvalidColorFormat, "irc color %q", digits)
	}
	return ColorCode(n % NumColorCodes), nil
}

// SplitRGB converts a hex string of the form "rgb" or "rrggbb" (leading
// '#' is stripped) to its three channel values.
func SplitRGB(hexString string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(hexString, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, errors.Wrapf(ErrInvalidColorFormat, "hex %q", hexString)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(ErrInvalidColorFormat, "hex %q", hexString)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

func toColorful(c Color) (colorful.Color, error) {
	r, g, b, err := SplitRGB(c.Hex())
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}, nil
}

// ClosestColorCodeRGB finds the palette entry with the smallest CIEDE2000
// distance to the given channel values. Ties break on palette order, so
// the result is deterministic.
func ClosestColorCodeRGB(r, g, b uint8) ColorCode {
	in := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	best := White
	bestDist := in.DistanceCIEDE2000(paletteLab[0])
	for i := 1; i < NumColorCodes; i++ {
		if d := in.DistanceCIEDE2000(paletteLab[i]); d < bestDist {
			best = ColorCode(i)
			bestDist = d
		}
	}
	return best
}

// HexToColorCode returns the palette entry for a hex string, preferring
// an exact match over the nearest perceptual one.
func HexToColorCode(hexString string) (ColorCode, error) {
	r, g, b, err := SplitRGB(hexString)
	if err != nil {
		return White, err
	}
	canonical := fmt.Sprintf("#%02X%02X%02X", r, g, b)
	if code, ok := hexToCode[canonical]; ok {
		return code, nil
	}
	return ClosestColorCodeRGB(r, g, b), nil
}

// ClosestColorCode snaps any Color to a palette entry.
func ClosestColorCode(c Color) (ColorCode, error) {
	if code, ok := c.(ColorCode); ok {
		return code, nil
	}
	return HexToColorCode(c.Hex())
}

// ColorByName resolves a palette identifier ("dark_blue", "darkblue" or
// "darkorange") to its ColorCode.
func ColorByName(name string) (ColorCode, bool) {
	code, ok := nameToCode[strings.ToLower(name)]
	return code, ok
}

// ParseColor resolves a color definition from HTML or operator input:
// a hex string stays a HexColor (verbatim), a palette name becomes a
// ColorCode and any other CSS color name becomes its hex value.
func ParseColor(s string) (Color, error) {
	if strings.HasPrefix(s, "#") {
		if _, _, _, err := SplitRGB(s); err != nil {
			return nil, err
		}
		if code, ok := hexToCode[strings.ToUpper(normalizeHex(s))]; ok {
			return code, nil
		}
		return HexColor(s), nil
	}
	if code, ok := ColorByName(s); ok {
		return code, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return HexColor(fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)), nil
	}
	return nil, errors.Wrapf(ErrInvalidColor, "color %q", s)
}

func normalizeHex(s string) string {
	r, g, b, err := SplitRGB(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// GoodContrastWithBlack reports whether a color is readable on a black
// background, judged by its HSV value channel.
func GoodContrastWithBlack(c Color) bool {
	cf, err := toColorful(c)
	if err != nil {
		return true
	}
	_, _, v := cf.Hsv()
	return v > 0.5
}

// Interpolate blends two colors in sRGB space and returns the resulting
// hex value. The factor is clamped to [0, 1].
func Interpolate(c1, c2 Color, factor float64) string {
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}
	a, err := toColorful(c1)
	if err != nil {
		return c1.Hex()
	}
	b, err := toColorful(c2)
	if err != nil {
		return c1.Hex()
	}
	return a.BlendRgb(b, factor).Hex()
}

// RainbowColors are the palette entries featured in rainbow text, in
// cycle order.
var RainbowColors = [...]ColorCode{Red, DarkYellow, Green, Cyan, Blue, Magenta}

// RainbowColor picks the discrete rainbow entry for a position factor in
// [0, 1), as used by the IRC renderer.
func RainbowColor(factor float64) ColorCode {
	idx := int(factor * float64(len(RainbowColors)))
	if idx >= len(RainbowColors) {
		idx = len(RainbowColors) - 1
	} else if idx < 0 {
		idx = 0
	}
	return RainbowColors[idx]
}

// RainbowHex interpolates smoothly across the rainbow entries for a
// position factor in [0, 1), as used by the Matrix renderer.
func RainbowHex(factor float64) string {
	pos := factor * float64(len(RainbowColors)-1)
	idx := int(pos)
	if idx >= len(RainbowColors)-1 {
		idx = len(RainbowColors) - 2
	} else if idx < 0 {
		idx = 0
	}
	return Interpolate(RainbowColors[idx], RainbowColors[idx+1], pos-float64(idx))
}
