package expect

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/contrary/internal/export"
)

// FailureMessage formats the failure of a negated operation:
//
//	Expecting <subject> not <humanized name> <args...>.
//
// Subject and arguments use the shortened export.
func FailureMessage(subject any, name string, args ...any) string {
	var b strings.Builder
	b.WriteString("Expecting ")
	b.WriteString(export.Shortened(subject))
	b.WriteString(" not ")
	b.WriteString(humanize(name))
	if len(args) > 0 {
		b.WriteByte(' ')
		b.WriteString(export.List(args...))
	}
	b.WriteByte('.')
	return b.String()
}

// positiveMessage formats the failure of a positive operation with the full
// export of subject and arguments.
func positiveMessage(subject any, name string, args ...any) string {
	var b strings.Builder
	b.WriteString("Expecting ")
	b.WriteString(export.Export(subject))
	b.WriteByte(' ')
	b.WriteString(humanize(name))
	for i, arg := range args {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(export.Export(arg))
	}
	b.WriteByte('.')
	return b.String()
}

// humanize turns an operation name into words: a space goes before every
// upper-case letter after the first that is not already preceded by one,
// then the result is lower-cased.
//
//	humanize("ToBeLessThanOrEqual") == "to be less than or equal"
func humanize(name string) string {
	var b strings.Builder
	prev := ' '
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && prev != ' ' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	// Casers carry state and are not shared between goroutines.
	return cases.Lower(language.Und).String(b.String())
}
