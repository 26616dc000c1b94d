package export

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type point struct {
	X, Y int
}

type empty struct{}

func TestShortened_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "nil"},
		{"true", true, "true"},
		{"int", 5, "5"},
		{"negative int", -12, "-12"},
		{"uint", uint8(7), "7"},
		{"float", 3.9, "3.9"},
		{"integral float", 4.0, "4.0"},
		{"float32", float32(0.5), "0.5"},
		{"infinity", math.Inf(1), "+Inf"},
		{"string", "abc", `"abc"`},
		{"string with newline", "a\nb", `"ab"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shortened(tt.value))
		})
	}
}

func TestShortened_Collections(t *testing.T) {
	var nilSlice []int
	var nilPoint *point

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"slice", []int{1, 2}, "[]int{...}"},
		{"empty slice", []int{}, "[]int{}"},
		{"nil slice", nilSlice, "nil"},
		{"array", [2]string{"a", "b"}, "[2]string{...}"},
		{"map", map[string]int{"a": 1}, "map[string]int{...}"},
		{"empty map", map[string]int{}, "map[string]int{}"},
		{"struct", point{1, 2}, "export.point{...}"},
		{"empty struct", empty{}, "export.empty{}"},
		{"pointer", &point{1, 2}, "&export.point{...}"},
		{"nil pointer", nilPoint, "nil"},
		{"any slice", []any{"a", 1}, "[]interface {}{...}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shortened(tt.value))
		})
	}
}

func TestShortened_LongStringKeepsHeadAndTail(t *testing.T) {
	s := strings.Repeat("a", 50) + "1234567"

	got := Shortened(s)

	assert.True(t, strings.HasPrefix(got, `"`+strings.Repeat("a", 29)+"..."), got)
	assert.True(t, strings.HasSuffix(got, `...234567"`), got)
	assert.Equal(t, 40, utf8.RuneCountInString(got))
}

func TestShortened_Bounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")

		got := Shortened(s)

		if utf8.RuneCountInString(got) > maxStringRunes {
			t.Fatalf("Shortened(%q) = %q exceeds %d runes", s, got, maxStringRunes)
		}
	})
}

func TestExport_Full(t *testing.T) {
	assert.Equal(t, "nil", Export(nil))
	assert.Equal(t, `"abc"`, Export("abc"))
	assert.Equal(t, "4.0", Export(4.0))
	assert.Equal(t, "[]int{1, 2}", Export([]int{1, 2}))
	assert.Equal(t, `map[string]int{"a":1, "b":2}`, Export(map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, "export.point{X:1, Y:2}", Export(point{1, 2}))
}

func TestList(t *testing.T) {
	assert.Equal(t, "", List())
	assert.Equal(t, `0 "a" []int{...}`, List(0, "a", []int{1}))
}
