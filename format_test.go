package nanofmt_test

import (
	"strings"
	"testing"

	"github.com/lattice-substrate/nanofmt"
	"github.com/lattice-substrate/nanofmt/fmtsink"
)

func render(format string, args ...any) string {
	n := nanofmt.FormatLengthArgs(format, args)
	buf := make([]byte, n+1)
	nanofmt.FormatBufferArgs(buf, format, args)
	return string(buf[:n])
}

func TestFormatDirectives(t *testing.T) {
	cases := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"literal", "hello", nil, "hello"},
		{"percent escape", "100%%", nil, "100%"},
		{"decimal", "%d", []any{42}, "42"},
		{"decimal negative", "%d", []any{-42}, "-42"},
		{"signed i", "%i", []any{-7}, "-7"},
		{"plus flag", "%+d", []any{42}, "+42"},
		{"space flag", "% d", []any{42}, " 42"},
		{"width", "%5d", []any{42}, "   42"},
		{"left justify", "%-5d", []any{42}, "42   "},
		{"zero pad", "%05d", []any{42}, "00042"},
		{"precision", "%.5d", []any{42}, "00042"},
		{"precision beats zero pad", "%08.5d", []any{42}, "   00042"},
		{"unsigned", "%u", []any{uint(42)}, "42"},
		{"hex", "%x", []any{255}, "ff"},
		{"hex upper", "%X", []any{255}, "FF"},
		{"hex alt", "%#x", []any{255}, "0xff"},
		{"hex alt upper", "%#X", []any{255}, "0XFF"},
		{"octal", "%o", []any{8}, "10"},
		{"octal alt", "%#o", []any{8}, "010"},
		{"binary", "%b", []any{5}, "101"},
		{"binary alt", "%#b", []any{5}, "0b101"},
		{"unsigned drops sign flags", "%+u", []any{42}, "42"},
		{"char", "%c", []any{'A'}, "A"},
		{"char width", "%3c", []any{'A'}, "  A"},
		{"char left", "%-3c", []any{'A'}, "A  "},
		{"string", "%s", []any{"hi"}, "hi"},
		{"string width", "%10s", []any{"hi"}, "        hi"},
		{"string left", "%-10s", []any{"hi"}, "hi        "},
		{"string precision", "%.3s", []any{"abcdef"}, "abc"},
		{"string nil", "%s", []any{nil}, "(null)"},
		{"fixed", "%f", []any{3.5}, "3.500000"},
		{"fixed precision", "%.2f", []any{3.14159}, "3.14"},
		{"fixed zero pad", "%05.2f", []any{3.14159}, "03.14"},
		{"fixed tie even down", "%.0f", []any{2.5}, "2"},
		{"fixed tie even up", "%.0f", []any{3.5}, "4"},
		{"exponential", "%e", []any{12345.6789}, "1.234568e+04"},
		{"exponential upper", "%E", []any{1e-9}, "1.000000E-09"},
		{"adaptive fixed", "%g", []any{100000.0}, "100000"},
		{"adaptive exp", "%g", []any{1000000.0}, "1e+06"},
		{"adaptive small", "%g", []any{0.0001}, "0.0001"},
		{"adaptive precision", "%.3g", []any{1234.5}, "1.23e+03"},
		{"pointer nil", "%p", []any{nil}, "(nil)"},
		{"star width", "%*d", []any{5, 42}, "   42"},
		{"star width negative", "%*d", []any{-5, 42}, "42   "},
		{"star precision", "%.*f", []any{2, 3.14159}, "3.14"},
		{"unknown specifier", "%q", []any{}, "q"},
		{"mixed", "%s=%d (%#x)", []any{"n", 42, 42}, "n=42 (0x2a)"},
	}

	for _, tc := range cases {
		if got := render(tc.format, tc.args...); got != tc.want {
			t.Errorf("%s: render(%q, %v) = %q, want %q", tc.name, tc.format, tc.args, got, tc.want)
		}
	}
}

func TestLengthClasses(t *testing.T) {
	cases := []struct {
		format string
		args   []any
		want   string
	}{
		{"%hhd", []any{int64(0x1FF)}, "-1"},   // narrowed to int8
		{"%hhu", []any{int64(0x1FF)}, "255"},  // narrowed to uint8
		{"%hd", []any{int64(0x1FFFF)}, "-1"},  // narrowed to int16
		{"%hu", []any{int64(0x1FFFF)}, "65535"},
		{"%ld", []any{int64(-9000000000)}, "-9000000000"},
		{"%lld", []any{int64(9223372036854775807)}, "9223372036854775807"},
		{"%llu", []any{uint64(18446744073709551615)}, "18446744073709551615"},
		{"%zu", []any{uint(7)}, "7"},
	}
	for _, tc := range cases {
		if got := render(tc.format, tc.args...); got != tc.want {
			t.Errorf("render(%q, %v) = %q, want %q", tc.format, tc.args, got, tc.want)
		}
	}
}

func TestNegativeStarPrecisionIgnored(t *testing.T) {
	if got := render("%.*f", -1, 3.5); got != "3.500000" {
		t.Fatalf("negative star precision: got %q, want default precision", got)
	}
}

func TestMissingArguments(t *testing.T) {
	if got := render("%d %s %f"); got != "0 (null) 0.000000" {
		t.Fatalf("missing arguments: got %q", got)
	}
}

func TestDanglingDirective(t *testing.T) {
	if got := render("abc%"); got != "abc" {
		t.Fatalf("dangling directive: got %q", got)
	}
	if got := render("abc%5"); got != "abc" {
		t.Fatalf("dangling directive with width: got %q", got)
	}
}

func TestFormatBufferTruncation(t *testing.T) {
	buf := make([]byte, 6)
	n := nanofmt.FormatBuffer(buf, "%s", "hello world")
	if n != 11 {
		t.Fatalf("logical length = %d, want 11", n)
	}
	if string(buf[:5]) != "hello" {
		t.Fatalf("truncated content = %q", buf[:5])
	}
	if buf[5] != 0 {
		t.Fatalf("missing NUL terminator: %q", buf)
	}
}

func TestFormatBufferExactFit(t *testing.T) {
	buf := make([]byte, 6)
	n := nanofmt.FormatBuffer(buf, "%s", "hello")
	if n != 5 {
		t.Fatalf("logical length = %d, want 5", n)
	}
	if string(buf[:5]) != "hello" || buf[5] != 0 {
		t.Fatalf("content = %q", buf)
	}
}

func TestFormatBufferEmpty(t *testing.T) {
	n := nanofmt.FormatBuffer(nil, "%d", 12345)
	if n != 5 {
		t.Fatalf("logical length into empty buffer = %d, want 5", n)
	}
}

func TestSizingAgreement(t *testing.T) {
	formats := []struct {
		format string
		args   []any
	}{
		{"%d and %s and %.3f", []any{-42, "text", 2.71828}},
		{"%e %g %G", []any{12345.6789, 0.00001234, 9.999e20}},
		{"%#x %#o %b %c", []any{255, 8, 5, 'Z'}},
		{"%-20s|%20s|", []any{"left", "right"}},
	}
	for _, tc := range formats {
		want := nanofmt.FormatLengthArgs(tc.format, tc.args)
		buf := make([]byte, want+1)
		got := nanofmt.FormatBufferArgs(buf, tc.format, tc.args)
		if got != want {
			t.Errorf("%q: buffer length %d != measured length %d", tc.format, got, want)
		}
	}
}

func TestFormatFuncStreams(t *testing.T) {
	var sb strings.Builder
	n := nanofmt.FormatFunc(func(c byte) { sb.WriteByte(c) }, "%s=%d", "x", 7)
	if sb.String() != "x=7" {
		t.Fatalf("streamed output = %q", sb.String())
	}
	if n != 3 {
		t.Fatalf("length = %d, want 3", n)
	}
}

func TestIdempotence(t *testing.T) {
	format := "%d %x %.4f %e %g %s"
	args := []any{-17, 48879, 1.0 / 3.0, 6.022e23, 0.125, "same"}
	first := render(format, args...)
	for i := 0; i < 3; i++ {
		if got := render(format, args...); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestOptionsDisableFloat(t *testing.T) {
	opts := &nanofmt.Options{DisableFloat: true}
	buf := make([]byte, 16)
	n := nanofmt.FormatSink(fmtsink.Buffer(buf), len(buf), opts, "%f", 3.5)
	if string(buf[:n]) != "f" {
		t.Fatalf("disabled float: got %q", buf[:n])
	}
}

func TestOptionsDefaultPrecision(t *testing.T) {
	opts := &nanofmt.Options{DefaultFloatPrecision: 2}
	buf := make([]byte, 16)
	n := nanofmt.FormatSink(fmtsink.Buffer(buf), len(buf), opts, "%f", 3.14159)
	if string(buf[:n]) != "3.14" {
		t.Fatalf("default precision 2: got %q", buf[:n])
	}
}

func TestPointerFormatting(t *testing.T) {
	got := render("%p", uintptr(0xdeadbeef))
	if !strings.HasPrefix(got, "0x") {
		t.Fatalf("pointer missing prefix: %q", got)
	}
	if !strings.HasSuffix(got, "deadbeef") {
		t.Fatalf("pointer missing address digits: %q", got)
	}
}
