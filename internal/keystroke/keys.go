package keystroke

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/bootkeys/internal/errors"
)

// Enter is the HID usage ID of the Return key, the default boot menu key.
const Enter = "0x28"

// namedKeys maps friendly names to USB HID keyboard usage IDs
// (HID Usage Tables, page 0x07).
var namedKeys = map[string]int{
	"enter":     0x28,
	"return":    0x28,
	"esc":       0x29,
	"escape":    0x29,
	"backspace": 0x2a,
	"tab":       0x2b,
	"space":     0x2c,
	"f1":        0x3a,
	"f2":        0x3b,
	"f3":        0x3c,
	"f4":        0x3d,
	"f5":        0x3e,
	"f6":        0x3f,
	"f7":        0x40,
	"f8":        0x41,
	"f9":        0x42,
	"f10":       0x43,
	"f11":       0x44,
	"f12":       0x45,
	"insert":    0x49,
	"home":      0x4a,
	"pageup":    0x4b,
	"delete":    0x4c,
	"end":       0x4d,
	"pagedown":  0x4e,
	"right":     0x4f,
	"left":      0x50,
	"down":      0x51,
	"up":        0x52,
}

// ResolveKeys turns friendly key names into HID code tokens. Tokens that
// aren't known names are passed through untouched, so raw codes like
// "0x28" work as-is. Empty tokens are dropped.
func ResolveKeys(tokens []string) []string {
	codes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if code, ok := namedKeys[strings.ToLower(tok)]; ok {
			codes = append(codes, fmt.Sprintf("0x%02x", code))
			continue
		}
		codes = append(codes, tok)
	}
	return codes
}

// ParseHIDCode parses a code token ("0x28", "40", "0o50") to its numeric
// usage ID. Only transports that need the number call this; the script
// transport forwards tokens verbatim.
func ParseHIDCode(token string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(token), 0, 32)
	if err != nil || n < 0 || n > 0xff {
		return 0, errors.New(errors.ErrKeystroke,
			fmt.Sprintf("%q is not a HID usage code", token),
			"Use a key name like enter, or a code like 0x28")
	}
	return int32(n), nil
}
