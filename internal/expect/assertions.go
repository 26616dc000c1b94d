package expect

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/roach88/contrary/internal/failure"
	"github.com/roach88/contrary/internal/keypath"
)

// ToBe asserts the value is identical to expected: same dynamic type and
// value, or the same backing storage for slices, maps and funcs.
func (e *Expectation) ToBe(expected any) error {
	if identical(e.value, expected) {
		return nil
	}
	return e.fail("ToBe", expected)
}

// ToEqual asserts the value equals expected. Numbers compare across types.
func (e *Expectation) ToEqual(expected any) error {
	if equal(e.value, expected) {
		return nil
	}
	return e.fail("ToEqual", expected)
}

func (e *Expectation) ToBeTrue() error {
	if b, ok := e.value.(bool); ok && b {
		return nil
	}
	return e.fail("ToBeTrue")
}

func (e *Expectation) ToBeFalse() error {
	if b, ok := e.value.(bool); ok && !b {
		return nil
	}
	return e.fail("ToBeFalse")
}

// ToBeTruthy asserts the value is not nil, zero or an empty collection.
func (e *Expectation) ToBeTruthy() error {
	if !isEmpty(e.value) {
		return nil
	}
	return e.fail("ToBeTruthy")
}

// ToBeFalsy asserts the value is nil, zero or an empty collection.
func (e *Expectation) ToBeFalsy() error {
	if isEmpty(e.value) {
		return nil
	}
	return e.fail("ToBeFalsy")
}

// ToBeNil asserts the value is nil or a nil pointer, map, slice, func,
// channel or interface.
func (e *Expectation) ToBeNil() error {
	if isNil(e.value) {
		return nil
	}
	return e.fail("ToBeNil")
}

func (e *Expectation) ToBeEmpty() error {
	if isEmpty(e.value) {
		return nil
	}
	return e.fail("ToBeEmpty")
}

func (e *Expectation) ToBeGreaterThan(expected any) error {
	return e.ordered("ToBeGreaterThan", expected, func(c int) bool { return c > 0 })
}

func (e *Expectation) ToBeGreaterThanOrEqual(expected any) error {
	return e.ordered("ToBeGreaterThanOrEqual", expected, func(c int) bool { return c >= 0 })
}

func (e *Expectation) ToBeLessThan(expected any) error {
	return e.ordered("ToBeLessThan", expected, func(c int) bool { return c < 0 })
}

func (e *Expectation) ToBeLessThanOrEqual(expected any) error {
	return e.ordered("ToBeLessThanOrEqual", expected, func(c int) bool { return c <= 0 })
}

// ToBeBetween asserts lowest <= value <= highest.
func (e *Expectation) ToBeBetween(lowest, highest any) error {
	lo, ok := compare(e.value, lowest)
	if !ok {
		return notComparable("ToBeBetween", e.value, lowest)
	}
	hi, ok := compare(e.value, highest)
	if !ok {
		return notComparable("ToBeBetween", e.value, highest)
	}
	if lo >= 0 && hi <= 0 {
		return nil
	}
	return e.fail("ToBeBetween", lowest, highest)
}

func (e *Expectation) ordered(name string, expected any, accept func(int) bool) error {
	c, ok := compare(e.value, expected)
	if !ok {
		return notComparable(name, e.value, expected)
	}
	if accept(c) {
		return nil
	}
	return e.fail(name, expected)
}

func notComparable(name string, value, other any) error {
	return failure.Usagef("%s cannot compare %T with %T", name, value, other)
}

// ToContain asserts every needle is contained: substrings of a string,
// elements of a slice or array, values of a map.
func (e *Expectation) ToContain(needles ...any) error {
	for _, needle := range needles {
		found, ok := contains(e.value, needle)
		if !ok {
			return failure.Usagef("ToContain cannot search %T for %T", e.value, needle)
		}
		if !found {
			return e.fail("ToContain", needle)
		}
	}
	return nil
}

// ToHaveCount asserts a collection has count elements, or a string count
// runes.
func (e *Expectation) ToHaveCount(count int) error {
	n, ok := length(e.value)
	if !ok {
		return failure.Usagef("ToHaveCount needs a countable value, got %T", e.value)
	}
	if n == count {
		return nil
	}
	return e.fail("ToHaveCount", count)
}

// ToHaveKey asserts key resolves against the value. Dotted string keys walk
// nested maps, slices and structs.
func (e *Expectation) ToHaveKey(key any) error {
	if keypath.Has(e.value, key) {
		return nil
	}
	return e.fail("ToHaveKey", key)
}

// ToHaveKeys asserts every leaf of the key specification resolves.
func (e *Expectation) ToHaveKeys(keys ...any) error {
	for _, key := range keypath.Expand(keys...) {
		if err := e.ToHaveKey(key); err != nil {
			return err
		}
	}
	return nil
}

func (e *Expectation) ToStartWith(prefix string) error {
	s, err := e.text("ToStartWith")
	if err != nil {
		return err
	}
	if strings.HasPrefix(s, prefix) {
		return nil
	}
	return e.fail("ToStartWith", prefix)
}

func (e *Expectation) ToEndWith(suffix string) error {
	s, err := e.text("ToEndWith")
	if err != nil {
		return err
	}
	if strings.HasSuffix(s, suffix) {
		return nil
	}
	return e.fail("ToEndWith", suffix)
}

// ToMatch asserts the value matches the RE2 pattern.
func (e *Expectation) ToMatch(pattern string) error {
	s, err := e.text("ToMatch")
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return failure.Usagef("ToMatch: %v", err)
	}
	if re.MatchString(s) {
		return nil
	}
	return e.fail("ToMatch", pattern)
}

func (e *Expectation) text(name string) (string, error) {
	if e.value != nil {
		if rv := reflect.ValueOf(e.value); rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	}
	return "", failure.Usagef("%s needs a string, got %T", name, e.value)
}

func (e *Expectation) ToBeString() error {
	return e.kind("ToBeString", reflect.String)
}

// ToBeInt accepts every signed and unsigned integer kind.
func (e *Expectation) ToBeInt() error {
	return e.kind("ToBeInt",
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64)
}

func (e *Expectation) ToBeFloat() error {
	return e.kind("ToBeFloat", reflect.Float32, reflect.Float64)
}

func (e *Expectation) ToBeBool() error {
	return e.kind("ToBeBool", reflect.Bool)
}

// ToBeSlice accepts slices and arrays.
func (e *Expectation) ToBeSlice() error {
	return e.kind("ToBeSlice", reflect.Slice, reflect.Array)
}

func (e *Expectation) ToBeMap() error {
	return e.kind("ToBeMap", reflect.Map)
}

func (e *Expectation) kind(name string, kinds ...reflect.Kind) error {
	if e.value != nil {
		k := reflect.TypeOf(e.value).Kind()
		for _, want := range kinds {
			if k == want {
				return nil
			}
		}
	}
	return e.fail(name)
}

// ToBeInstanceOf asserts the value has the type of sample. A reflect.Type is
// used directly; a nil pointer to an interface, such as (*error)(nil),
// asserts the value implements that interface.
func (e *Expectation) ToBeInstanceOf(sample any) error {
	want, err := sampleType(sample)
	if err != nil {
		return err
	}
	if e.value != nil {
		got := reflect.TypeOf(e.value)
		if got == want || (want.Kind() == reflect.Interface && got.Implements(want)) {
			return nil
		}
	}
	return e.fail("ToBeInstanceOf", want.String())
}

func sampleType(sample any) (reflect.Type, error) {
	switch s := sample.(type) {
	case nil:
		return nil, failure.Usagef("ToBeInstanceOf needs a sample value or type")
	case reflect.Type:
		return s, nil
	}
	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

// describeSubject renders a value for usage errors.
func describeSubject(v any) string {
	return fmt.Sprintf("%T", v)
}
