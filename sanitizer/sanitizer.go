// FILE: lixenwraith/grouplog/sanitizer/sanitizer.go
// Package sanitizer provides a fluent and composable interface for sanitizing
// strings based on configurable rules using bitwise filter flags and transforms.
// Terminal styling sequences can be removed before the rules run.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Filter flags for character matching
const (
	FilterNonPrintable  uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                          // Matches control characters (unicode.IsControl)
	FilterWhitespace                       // Matches whitespace characters (unicode.IsSpace)
	FilterPathSeparator                    // Matches '/' and '\'
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHyphen                       // Replaces a run of matching characters with a single '-'
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw      PolicyPreset = "raw"      // Raw is a no-op (passthrough)
	PolicyPlain    PolicyPreset = "plain"    // Styling sequences removed, everything else kept
	PolicyFilename PolicyPreset = "filename" // Safe single path element for snapshot files
	PolicyTxt      PolicyPreset = "txt"      // Non-printable runes made visible
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policy is a preset: its rune rules and whether styling is stripped first
type policy struct {
	stripANSI bool
	rules     []rule
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset]policy{
	PolicyRaw:   {},
	PolicyPlain: {stripANSI: true},
	PolicyFilename: {stripANSI: true, rules: []rule{
		{filter: FilterWhitespace | FilterPathSeparator, transform: TransformHyphen},
		{filter: FilterControl, transform: TransformStrip},
	}},
	PolicyTxt: {stripANSI: true, rules: []rule{
		{filter: FilterNonPrintable, transform: TransformHexEncode},
	}},
}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = []struct {
	flag  uint64
	check func(rune) bool
}{
	{FilterNonPrintable, func(r rune) bool { return !strconv.IsPrint(r) }},
	{FilterControl, unicode.IsControl},
	{FilterWhitespace, unicode.IsSpace},
	{FilterPathSeparator, func(r rune) bool { return r == '/' || r == '\\' }},
}

// Sanitizer provides chainable text sanitization.
// A configured Sanitizer is safe for concurrent use by Sanitize.
type Sanitizer struct {
	rules     []rule
	stripANSI bool
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// StripANSI removes terminal escape sequences before rules are applied
func (s *Sanitizer) StripANSI() *Sanitizer {
	s.stripANSI = true
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if p, ok := policyRules[preset]; ok {
		s.stripANSI = s.stripANSI || p.stripANSI
		s.rules = append(s.rules, p.rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if s.stripANSI {
		data = ansi.Strip(data)
	}
	if len(s.rules) == 0 {
		return data
	}

	buf := make([]byte, 0, len(data))
	inHyphenRun := false

	for _, r := range data {
		matched := false
		// Check rules in order (first match wins)
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				if rl.transform&TransformHyphen != 0 {
					if !inHyphenRun {
						buf = append(buf, '-')
					}
					inHyphenRun = true
				} else {
					applyTransform(&buf, r, rl.transform)
					inHyphenRun = false
				}
				matched = true
				break
			}
		}
		if !matched {
			buf = utf8.AppendRune(buf, r)
			inHyphenRun = false
		}
	}

	return string(buf)
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for _, fc := range filterCheckers {
		if (filterMask&fc.flag) != 0 && fc.check(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the buffer
func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = append(*buf, '<')
		*buf = append(*buf, hex.EncodeToString(runeBytes[:n])...)
		*buf = append(*buf, '>')
	}
}

var (
	plainSanitizer    = New().Policy(PolicyPlain)
	filenameSanitizer = New().Policy(PolicyFilename)
)

// Plain removes all terminal styling sequences from s
func Plain(s string) string {
	return plainSanitizer.Sanitize(s)
}

// Filename turns s into a single path element: styling removed, whitespace and
// path separator runs collapsed to one hyphen, control characters dropped
func Filename(s string) string {
	return filenameSanitizer.Sanitize(s)
}
