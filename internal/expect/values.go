package expect

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// identical reports whether a and b have the same dynamic type and value.
// Slices, maps and funcs are identical only when they share backing storage.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Comparable() && rb.Comparable() {
		return ra.Equal(rb)
	}
	switch ra.Kind() {
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	default:
		return false
	}
}

// equal is loose equality: numbers compare by value across types, anything
// else by reflect.DeepEqual.
func equal(a, b any) bool {
	if c, ok := compareNumbers(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two numbers or two strings.
func compare(a, b any) (int, bool) {
	if c, ok := compareNumbers(a, b); ok {
		return c, true
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.String && rb.Kind() == reflect.String {
		return strings.Compare(ra.String(), rb.String()), true
	}
	return 0, false
}

type numberKind int

const (
	notNumber numberKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func kindOf(rv reflect.Value) numberKind {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	default:
		return notNumber
	}
}

func isNumber(v any) bool {
	return v != nil && kindOf(reflect.ValueOf(v)) != notNumber
}

// compareNumbers compares integers exactly, including mixed signed and
// unsigned kinds, and falls back to float64 when either side is a float.
func compareNumbers(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := kindOf(ra), kindOf(rb)
	if ka == notNumber || kb == notNumber {
		return 0, false
	}

	switch {
	case ka == signedNumber && kb == signedNumber:
		return cmp3(ra.Int(), rb.Int()), true
	case ka == unsignedNumber && kb == unsignedNumber:
		return cmp3(ra.Uint(), rb.Uint()), true
	case ka == signedNumber && kb == unsignedNumber:
		return compareSignedUnsigned(ra.Int(), rb.Uint()), true
	case ka == unsignedNumber && kb == signedNumber:
		return -compareSignedUnsigned(rb.Int(), ra.Uint()), true
	default:
		return cmp3(toFloat(ra), toFloat(rb)), true
	}
}

// compareSignedUnsigned orders s against u without going through float64.
func compareSignedUnsigned(s int64, u uint64) int {
	if s < 0 {
		return -1
	}
	return cmp3(uint64(s), u)
}

func toFloat(rv reflect.Value) float64 {
	switch kindOf(rv) {
	case signedNumber:
		return float64(rv.Int())
	case unsignedNumber:
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func cmp3[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// length returns the rune count of strings and the element count of
// collections.
func length(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// contains reports whether haystack holds needle: substrings for strings,
// elements for slices and arrays, values for maps.
func contains(haystack, needle any) (found, ok bool) {
	if haystack == nil {
		return false, false
	}
	rv := reflect.ValueOf(haystack)
	switch rv.Kind() {
	case reflect.String:
		s, isString := needle.(string)
		if !isString {
			return false, false
		}
		return strings.Contains(rv.String(), s), true
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if equal(rv.Index(i).Interface(), needle) {
				return true, true
			}
		}
		return false, true
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if equal(iter.Value().Interface(), needle) {
				return true, true
			}
		}
		return false, true
	default:
		return false, false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// isEmpty treats nil, zero values and zero-length collections as empty.
func isEmpty(v any) bool {
	if isNil(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
