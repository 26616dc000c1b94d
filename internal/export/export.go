// Package export renders arbitrary Go values for failure messages.
//
// Shortened produces a bounded, human-readable form: collections collapse to
// their type followed by {...}, and long strings keep their head and tail.
// Export produces the full Go-syntax representation.
//
// Neither form is meant to round-trip; both are deterministic.
package export

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// maxStringRunes is the longest quoted string Shortened renders verbatim.
	maxStringRunes = 40
	headRunes      = 30
	tailRunes      = 7
)

// Shortened returns the shortened export of v.
func Shortened(v any) string {
	if v == nil {
		return "nil"
	}
	return shortened(reflect.ValueOf(v))
}

func shortened(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.String:
		return shortenString(rv.String())
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		return collection(rv.Type(), rv.Len())
	case reflect.Array:
		return collection(rv.Type(), rv.Len())
	case reflect.Struct:
		return collection(rv.Type(), rv.NumField())
	case reflect.Pointer:
		if rv.IsNil() {
			return "nil"
		}
		return "&" + shortened(rv.Elem())
	case reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return shortened(rv.Elem())
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return "nil"
		}
		return rv.Type().String()
	default:
		return scalar(rv)
	}
}

// Export returns the full export of v.
func Export(v any) string {
	if v == nil {
		return "nil"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(norm.NFC.String(rv.String()))
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	default:
		return fmt.Sprintf("%#v", v)
	}
}

// List joins the shortened exports of values with single spaces.
func List(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Shortened(v)
	}
	return strings.Join(parts, " ")
}

func shortenString(s string) string {
	s = strings.ReplaceAll(norm.NFC.String(s), "\n", "")
	quoted := strconv.Quote(s)
	if utf8.RuneCountInString(quoted) <= maxStringRunes {
		return quoted
	}
	runes := []rune(quoted)
	return string(runes[:headRunes]) + "..." + string(runes[len(runes)-tailRunes:])
}

func collection(t reflect.Type, n int) string {
	if n == 0 {
		return t.String() + "{}"
	}
	return t.String() + "{...}"
}

func scalar(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	default:
		return fmt.Sprint(rv.Interface())
	}
}

// formatFloat keeps a trailing ".0" on integral values so 4.0 and 4 export
// differently.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
