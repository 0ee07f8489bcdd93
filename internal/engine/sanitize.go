package engine

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/tartampluch/contact-birthday/internal/config"
)

var alphaNumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// defaultEmoticonRune is U+1F973 (face with party horn and party hat).
const defaultEmoticonRune rune = 0x1F973

// SanitizeEmoticon returns the HTML entity prefix "&#x" followed by code when
// code is exactly five alphanumeric characters, and the default party face otherwise.
func SanitizeEmoticon(code string) string {
	if len(code) != config.EmoticonCodeLength || !alphaNumeric.MatchString(code) {
		return config.EmoticonPrefix + config.DefaultEmoticonCode
	}
	return config.EmoticonPrefix + code
}

// EmoticonRune decodes a sanitized emoticon entity into the rune to display.
// Alphanumeric codes that are not hexadecimal fall back to the default.
func EmoticonRune(entity string) rune {
	code := strings.TrimPrefix(entity, config.EmoticonPrefix)
	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil || v == 0 || v > 0x10FFFF {
		return defaultEmoticonRune
	}
	return rune(v)
}

// SanitizeHexColor returns hex when it is at most seven characters, starts
// with '#' and is alphanumeric after it. Otherwise it returns fallback.
func SanitizeHexColor(hex, fallback string) string {
	if len(hex) > config.HexColorMaxLength {
		return fallback
	}
	if !strings.HasPrefix(hex, config.HexColorPrefix) {
		return fallback
	}
	if !alphaNumeric.MatchString(hex[1:]) {
		return fallback
	}
	return hex
}

// SanitizeBackgroundColor applies SanitizeHexColor with the background default.
func SanitizeBackgroundColor(hex string) string {
	return SanitizeHexColor(hex, config.DefaultBackgroundColor)
}

// SanitizeBorderColor applies SanitizeHexColor with the border default.
func SanitizeBorderColor(hex string) string {
	return SanitizeHexColor(hex, config.DefaultBorderColor)
}

// Theme holds the sanitized colors of the widget wrapper.
type Theme struct {
	Background string `json:"backgroundColor"`
	Border     string `json:"borderColor"`
}

// NewTheme sanitizes both color inputs.
func NewTheme(backgroundHex, borderHex string) Theme {
	return Theme{
		Background: SanitizeBackgroundColor(backgroundHex),
		Border:     SanitizeBorderColor(borderHex),
	}
}

// CSS returns the inline style applied to the wrapper element.
func (t Theme) CSS() string {
	return fmt.Sprintf(config.FormatWrapperStyles, t.Background, t.Border)
}

// ParseHexColor converts "#rgb" or "#rrggbb" into an opaque color.
// Sanitized values may still be non-hex ("#zzz"), so callers supply a fallback.
func ParseHexColor(hex string, fallback color.NRGBA) color.NRGBA {
	s := strings.TrimPrefix(hex, config.HexColorPrefix)
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
