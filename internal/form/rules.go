package form

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/yildizm/pagekit/internal/common"
)

// Rule decides whether a raw field value is acceptable
type Rule func(value string) bool

// wideSpace covers Unicode spaces as well as the ASCII set RE2 matches for \s
const wideSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	emailPattern = regexp.MustCompile(`^[^` + wideSpace + `@]+@[^` + wideSpace + `@]+\.[^` + wideSpace + `@]+$`)
	spaceRun     = regexp.MustCompile(`^[` + wideSpace + `]+$`)
)

// isWideSpace reports whether r belongs to the wideSpace class
func isWideSpace(r rune) bool {
	return spaceRun.MatchString(string(r))
}

// MinTrimmedLength accepts values with at least n UTF-16 code units once
// surrounding wideSpace characters are removed. Astral characters count twice
// and combining marks count on their own.
func MinTrimmedLength(n int) Rule {
	return func(value string) bool {
		return utf16Len(strings.TrimFunc(value, isWideSpace)) >= n
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// EmailShape accepts local@domain.tld with no whitespace or extra @ in either part
func EmailShape(value string) bool {
	return emailPattern.MatchString(value)
}

// DefaultRules returns the contact form rule table
func DefaultRules() map[common.FieldID]Rule {
	return map[common.FieldID]Rule{
		common.FieldName:    MinTrimmedLength(2),
		common.FieldEmail:   EmailShape,
		common.FieldSubject: MinTrimmedLength(3),
		common.FieldMessage: MinTrimmedLength(10),
	}
}
