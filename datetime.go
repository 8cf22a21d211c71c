package toml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Datetime holds any of the four TOML datetime variants. Which parts
// are present determines the variant; the original sub-second digit
// count and offset spelling are kept so encoding is faithful.
type Datetime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Nanosecond           int

	// FracDigits is the number of fractional-second digits as written,
	// capped at 9. Zero means no fractional part.
	FracDigits int

	// SecondsOmitted records an HH:MM literal (valid under 1.1.0 only).
	SecondsOmitted bool

	HasDate bool
	HasTime bool

	HasOffset     bool
	Zulu          bool // offset written as Z
	OffsetMinutes int  // signed minutes east of UTC when HasOffset && !Zulu
}

// kind maps the present parts to the Value variant.
func (d Datetime) kind() Kind {
	switch {
	case d.HasDate && d.HasTime && d.HasOffset:
		return KindDatetime
	case d.HasDate && d.HasTime:
		return KindLocalDatetime
	case d.HasDate:
		return KindLocalDate
	default:
		return KindLocalTime
	}
}

// String renders the datetime in canonical TOML form, preserving the
// captured precision.
func (d Datetime) String() string { return d.render(policy110) }

// render writes the datetime under the given grammar. A seconds-less
// time is spelled back out as :00 when the policy has no optional
// seconds.
func (d Datetime) render(pol policy) string {
	var b strings.Builder
	if d.HasDate {
		fmt.Fprintf(&b, "%04d-%02d-%02d", d.Year, d.Month, d.Day)
		if d.HasTime {
			b.WriteByte('T')
		}
	}
	if d.HasTime {
		fmt.Fprintf(&b, "%02d:%02d", d.Hour, d.Minute)
		if !d.SecondsOmitted || !pol.optionalSeconds {
			fmt.Fprintf(&b, ":%02d", d.Second)
		}
		if d.FracDigits > 0 {
			frac := fmt.Sprintf("%09d", d.Nanosecond)
			b.WriteByte('.')
			b.WriteString(frac[:d.FracDigits])
		}
	}
	if d.HasOffset {
		if d.Zulu {
			b.WriteByte('Z')
		} else {
			m := d.OffsetMinutes
			sign := byte('+')
			if m < 0 {
				sign = '-'
				m = -m
			}
			fmt.Fprintf(&b, "%c%02d:%02d", sign, m/60, m%60)
		}
	}
	return b.String()
}

// The shapes below intentionally over-match (optional seconds in every
// version); seconds presence is checked against the policy afterwards
// so the error message can name the feature.
var (
	dtDateRe   = `(\d{4})-(\d{2})-(\d{2})`
	dtTimeRe   = `(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?`
	dtOffsetRe = `([Zz]|[+-]\d{2}:\d{2})`

	dtReOffsetDT  = regexp.MustCompile(`^` + dtDateRe + `[T t]` + dtTimeRe + dtOffsetRe + `$`)
	dtReLocalDT   = regexp.MustCompile(`^` + dtDateRe + `[T t]` + dtTimeRe + `$`)
	dtReLocalDate = regexp.MustCompile(`^` + dtDateRe + `$`)
	dtReLocalTime = regexp.MustCompile(`^` + dtTimeRe + `$`)
)

// parseDatetime validates and decodes a datetime token. It returns an
// error message positioned by the caller.
func parseDatetime(text string, pol policy) (Datetime, string) {
	switch {
	case dtReOffsetDT.MatchString(text):
		return decodeDatetimeParts(text, pol, true)
	case dtReLocalDT.MatchString(text):
		return decodeDatetimeParts(text, pol, false)
	case dtReLocalDate.MatchString(text):
		var d Datetime
		d.HasDate = true
		if msg := decodeDateInto(&d, text); msg != "" {
			return Datetime{}, msg
		}
		return d, ""
	case dtReLocalTime.MatchString(text):
		var d Datetime
		d.HasTime = true
		if msg := decodeTimeInto(&d, text, pol); msg != "" {
			return Datetime{}, msg
		}
		return d, ""
	default:
		return Datetime{}, fmt.Sprintf("invalid datetime format: %s", text)
	}
}

func decodeDatetimeParts(text string, pol policy, hasOffset bool) (Datetime, string) {
	sep := strings.IndexAny(text, "Tt ")
	datePart := text[:sep]
	timePart := text[sep+1:]

	var d Datetime
	d.HasDate = true
	d.HasTime = true

	if hasOffset {
		var msg string
		timePart, msg = decodeOffsetInto(&d, timePart, text)
		if msg != "" {
			return Datetime{}, msg
		}
	}
	if msg := decodeDateInto(&d, datePart); msg != "" {
		return Datetime{}, msg
	}
	if msg := decodeTimeInto(&d, timePart, pol); msg != "" {
		return Datetime{}, msg
	}
	return d, ""
}

func decodeOffsetInto(d *Datetime, timePart, full string) (string, string) {
	d.HasOffset = true
	if idx := strings.IndexAny(timePart, "Zz"); idx >= 0 {
		d.Zulu = true
		return timePart[:idx], ""
	}
	idx := strings.LastIndexAny(timePart, "+-")
	if idx <= 0 {
		return "", fmt.Sprintf("invalid offset format: %s", full)
	}
	parts := strings.Split(timePart[idx+1:], ":")
	if len(parts) != 2 {
		return "", fmt.Sprintf("invalid offset format: %s", full)
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	if h > 23 {
		return "", fmt.Sprintf("offset hour out of range: %s", full)
	}
	if m > 59 {
		return "", fmt.Sprintf("offset minute out of range: %s", full)
	}
	d.OffsetMinutes = h*60 + m
	if timePart[idx] == '-' {
		d.OffsetMinutes = -d.OffsetMinutes
	}
	return timePart[:idx], ""
}

func decodeDateInto(d *Datetime, s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return fmt.Sprintf("invalid date: %s", s)
	}
	if len(parts[0]) != 4 {
		return fmt.Sprintf("year must be 4 digits: %s", s)
	}
	if len(parts[1]) != 2 {
		return fmt.Sprintf("month must be 2 digits: %s", s)
	}
	if len(parts[2]) != 2 {
		return fmt.Sprintf("day must be 2 digits: %s", s)
	}
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	if month < 1 || month > 12 {
		return fmt.Sprintf("month out of range: %s", s)
	}
	daysInMonth := [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if isLeapYear(year) {
		daysInMonth[2] = 29
	}
	if day < 1 || day > daysInMonth[month] {
		return fmt.Sprintf("day %d out of range for month %d: %s", day, month, s)
	}
	d.Year, d.Month, d.Day = year, month, day
	return ""
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func decodeTimeInto(d *Datetime, s string, pol policy) string {
	main := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		main = s[:idx]
		frac = s[idx+1:]
		if frac == "" {
			return fmt.Sprintf("trailing dot in time: %s", s)
		}
	}
	parts := strings.Split(main, ":")
	switch len(parts) {
	case 2:
		if !pol.optionalSeconds {
			return fmt.Sprintf("seconds are required in TOML %s times: %s", policy100.version, s)
		}
		if frac != "" {
			return fmt.Sprintf("fractional seconds require seconds: %s", s)
		}
		d.SecondsOmitted = true
	case 3:
		if len(parts[2]) != 2 {
			return fmt.Sprintf("second must be 2 digits: %s", s)
		}
	default:
		return fmt.Sprintf("time must have HH:MM or HH:MM:SS: %s", s)
	}
	if len(parts[0]) != 2 {
		return fmt.Sprintf("hour must be 2 digits: %s", s)
	}
	if len(parts[1]) != 2 {
		return fmt.Sprintf("minute must be 2 digits: %s", s)
	}

	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	if hour > 23 {
		return fmt.Sprintf("hour out of range: %s", s)
	}
	if minute > 59 {
		return fmt.Sprintf("minute out of range: %s", s)
	}
	d.Hour, d.Minute = hour, minute

	if len(parts) == 3 {
		sec, _ := strconv.Atoi(parts[2])
		if sec > 60 {
			return fmt.Sprintf("second out of range: %s", s)
		}
		d.Second = sec
	}
	if frac != "" {
		if msg := decodeFracInto(d, frac, s); msg != "" {
			return msg
		}
	}
	return ""
}

// decodeFracInto keeps at most nanosecond precision; extra written
// digits are truncated.
func decodeFracInto(d *Datetime, frac, full string) string {
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return fmt.Sprintf("invalid fractional seconds: %s", full)
		}
	}
	kept := frac
	if len(kept) > 9 {
		kept = kept[:9]
	}
	n, _ := strconv.Atoi(kept)
	for i := len(kept); i < 9; i++ {
		n *= 10
	}
	d.Nanosecond = n
	d.FracDigits = len(kept)
	return ""
}
