// Package conformance checks the formatting engine against external
// references: the standard library's fmt package for the behavior the two
// share, and pinned vector suites for the behavior that is deliberately
// engine-specific.
package conformance_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/nanofmt"
)

func render(format string, args ...any) string {
	n := nanofmt.FormatLengthArgs(format, args)
	buf := make([]byte, n+1)
	nanofmt.FormatBufferArgs(buf, format, args)
	return string(buf[:n])
}

// sharedBehavior lists directives where the engine and fmt.Sprintf agree
// byte for byte. fmt acts as the trusted oracle here.
var sharedBehavior = []struct {
	format string
	args   []any
}{
	{"%d", []any{42}},
	{"%d", []any{-42}},
	{"%d", []any{0}},
	{"%5d", []any{42}},
	{"%-5d", []any{42}},
	{"%05d", []any{42}},
	{"%05d", []any{-42}},
	{"%+d", []any{42}},
	{"%+d", []any{-42}},
	{"% d", []any{42}},
	{"%x", []any{255}},
	{"%X", []any{255}},
	{"%#x", []any{255}},
	{"%o", []any{8}},
	{"%#o", []any{8}},
	{"%b", []any{5}},
	{"%c", []any{65}},
	{"%s", []any{"hello"}},
	{"%10s", []any{"hi"}},
	{"%-10s", []any{"hi"}},
	{"%.3s", []any{"abcdef"}},
	{"%f", []any{3.5}},
	{"%f", []any{-3.5}},
	{"%.2f", []any{3.14159}},
	{"%05.2f", []any{3.14159}},
	{"%.0f", []any{2.5}},
	{"%.0f", []any{3.5}},
	{"%.0f", []any{42.0}},
	{"%e", []any{12345.6789}},
	{"%E", []any{1e-9}},
	{"%.2e", []any{-12345.6789}},
	{"%g", []any{100000.0}},
	{"%g", []any{1000000.0}},
	{"%g", []any{0.0001}},
	{"%.3g", []any{1234.5}},
	{"%%", nil},
}

func TestAgreesWithStdlib(t *testing.T) {
	for _, tc := range sharedBehavior {
		want := fmt.Sprintf(tc.format, tc.args...)
		got := render(tc.format, tc.args...)
		require.Equalf(t, want, got, "format %q args %v", tc.format, tc.args)
	}
}

// divergences pins behavior where the engine intentionally differs from
// fmt: C-style null literals, the %u specifier, capped significant digits
// in adaptive mode, and the fixed-notation overflow switch.
func TestIntentionalDivergences(t *testing.T) {
	cases := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"nil string argument", "%s", []any{nil}, "(null)"},
		{"nil pointer", "%p", []any{nil}, "(nil)"},
		{"unsigned specifier", "%u", []any{uint(42)}, "42"},
		{"adaptive significant cap", "%g", []any{123456789.0}, "1.23457e+08"},
		{"fixed overflow switch", "%f", []any{1e10}, "1e+10"},
		{"fixed F variant", "%F", []any{3.5}, "3.500000"},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, render(tc.format, tc.args...), "%s: format %q", tc.name, tc.format)
	}
}

func TestNonFiniteRendering(t *testing.T) {
	require.Equal(t, "inf", render("%f", math.Inf(1)))
	require.Equal(t, "-inf", render("%f", math.Inf(-1)))
	require.Equal(t, "+inf", render("%+f", math.Inf(1)))
	require.Equal(t, "nan", render("%f", math.NaN()))
}

func TestSizingMatchesOracleLength(t *testing.T) {
	for _, tc := range sharedBehavior {
		want := len(fmt.Sprintf(tc.format, tc.args...))
		require.Equalf(t, want, nanofmt.FormatLengthArgs(tc.format, tc.args),
			"format %q args %v", tc.format, tc.args)
	}
}
