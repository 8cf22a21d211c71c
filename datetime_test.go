package toml

import (
	"errors"
	"testing"
)

func parseDT(t *testing.T, src string) Datetime {
	t.Helper()
	root := mustParse(t, "v = "+src+"\n")
	v, _ := root.Get("v")
	dt, ok := v.AsDatetime()
	if !ok {
		t.Fatalf("%s parsed as %v, not a datetime", src, v.Kind())
	}
	return dt
}

func TestDatetime_OffsetVariants(t *testing.T) {
	dt := parseDT(t, "1979-05-27T07:32:00Z")
	if !dt.HasOffset || !dt.Zulu {
		t.Fatalf("expected Zulu offset, got %+v", dt)
	}
	if dt.Year != 1979 || dt.Month != 5 || dt.Day != 27 {
		t.Fatalf("bad date: %+v", dt)
	}

	dt = parseDT(t, "1979-05-27T00:32:00-07:00")
	if dt.Zulu || dt.OffsetMinutes != -420 {
		t.Fatalf("expected -420 offset minutes, got %+v", dt)
	}

	dt = parseDT(t, "1979-05-27T00:32:00+05:30")
	if dt.OffsetMinutes != 330 {
		t.Fatalf("expected 330 offset minutes, got %d", dt.OffsetMinutes)
	}
}

func TestDatetime_KindMapping(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"1979-05-27T07:32:00Z", KindDatetime},
		{"1979-05-27T07:32:00", KindLocalDatetime},
		{"1979-05-27", KindLocalDate},
		{"07:32:00", KindLocalTime},
	}
	for _, c := range cases {
		root := mustParse(t, "v = "+c.src+"\n")
		v, _ := root.Get("v")
		if v.Kind() != c.kind {
			t.Fatalf("%s parsed as %v, want %v", c.src, v.Kind(), c.kind)
		}
	}
}

func TestDatetime_SpaceSeparator(t *testing.T) {
	dt := parseDT(t, "1979-05-27 07:32:00Z")
	if !dt.HasDate || !dt.HasTime || !dt.Zulu {
		t.Fatalf("space-separated datetime not recognized: %+v", dt)
	}
	// The canonical rendering uses T.
	if dt.String() != "1979-05-27T07:32:00Z" {
		t.Fatalf("rendered %q", dt.String())
	}
}

func TestDatetime_FractionalSeconds(t *testing.T) {
	dt := parseDT(t, "07:32:00.123")
	if dt.FracDigits != 3 || dt.Nanosecond != 123000000 {
		t.Fatalf("frac = %d digits, %d ns", dt.FracDigits, dt.Nanosecond)
	}
	if dt.String() != "07:32:00.123" {
		t.Fatalf("rendered %q", dt.String())
	}

	// More than nanosecond precision truncates but stays valid.
	dt = parseDT(t, "07:32:00.9999999999")
	if dt.FracDigits != 9 || dt.Nanosecond != 999999999 {
		t.Fatalf("frac = %d digits, %d ns", dt.FracDigits, dt.Nanosecond)
	}
}

func TestDatetime_LeapYear(t *testing.T) {
	parseDT(t, "2000-02-29")
	parseDT(t, "2024-02-29")

	for _, src := range []string{"1900-02-29", "2023-02-29"} {
		_, err := Parse([]byte("v = " + src + "\n"))
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Fatalf("%s: expected ErrInvalidDateTime, got %v", src, err)
		}
	}
}

func TestDatetime_RangeChecks(t *testing.T) {
	bad := []string{
		"1979-13-01",
		"1979-00-01",
		"1979-01-32",
		"24:00:00",
		"07:60:00",
		"07:32:61",
		"1979-05-27T07:32:00+24:00",
		"1979-05-27T07:32:00+00:60",
	}
	for _, src := range bad {
		_, err := Parse([]byte("v = " + src + "\n"))
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Fatalf("%s: expected ErrInvalidDateTime, got %v", src, err)
		}
	}
}

func TestDatetime_LeapSecondAllowed(t *testing.T) {
	dt := parseDT(t, "23:59:60")
	if dt.Second != 60 {
		t.Fatalf("second = %d", dt.Second)
	}
}

func TestDatetime_MalformedShapes(t *testing.T) {
	bad := []string{
		"1979-5-27",
		"07:32:0",
		"1979-05-27T07:32:00.",
	}
	for _, src := range bad {
		_, err := Parse([]byte("v = " + src + "\n"))
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Fatalf("%s: expected ErrInvalidDateTime, got %v", src, err)
		}
	}
}

func TestDatetime_RenderPreservesSpelling(t *testing.T) {
	cases := []string{
		"1979-05-27T07:32:00Z",
		"1979-05-27T00:32:00-07:00",
		"1979-05-27T00:32:00.999+05:30",
		"1979-05-27",
		"07:32:00.5",
	}
	for _, src := range cases {
		if got := parseDT(t, src).String(); got != src {
			t.Fatalf("%s rendered as %q", src, got)
		}
	}
}
