package namer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Candidate date patterns in priority order. The 8-digit form is validated
// as a YYYYMMDD calendar date; the bare 6-digit form is accepted without
// validation. That leniency is deliberate legacy behavior: a 6-digit run
// could be yymmdd, ddmmyy or neither, and there is no reliable way to tell,
// so any match is taken at face value.
var (
	eightDigitPattern = regexp.MustCompile(`\d{8}`)
	isoDatePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	sixDigitPattern   = regexp.MustCompile(`\d{6}`)
)

// ExtractDateFromFilename scans a filename for an embedded date. It tries, in
// order: 8 contiguous digits (validated as YYYYMMDD), an ISO yyyy-mm-dd form
// (normalized by stripping hyphens), and finally any 6 contiguous digits
// (unvalidated). The second return is false when nothing plausible is found.
func ExtractDateFromFilename(filename string) (string, bool) {
	if m := eightDigitPattern.FindString(filename); m != "" {
		if isValidYYYYMMDD(m) {
			return m, true
		}
		// An 8-digit run that fails calendar validation is an ID or serial
		// number, not a date. Trying the 6-digit pattern now would just match
		// a slice of the same digits, so give up instead.
		return "", false
	}

	if m := isoDatePattern.FindString(filename); m != "" {
		return strings.ReplaceAll(m, "-", ""), true
	}

	if m := sixDigitPattern.FindString(filename); m != "" {
		return m, true
	}

	return "", false
}

// isValidYYYYMMDD checks the coarse calendar plausibility of an 8-digit date:
// year in [1900,2100], month in [1,12], day in [1,31]. Month lengths and leap
// years are not checked.
func isValidYYYYMMDD(s string) bool {
	if len(s) != 8 {
		return false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil {
		return false
	}
	day, err := strconv.Atoi(s[6:8])
	if err != nil {
		return false
	}
	return year >= 1900 && year <= 2100 && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// CurrentDate returns the current date in the configured format. Unknown
// formats fall back to yyyymmdd.
func (f *Formatter) CurrentDate() string {
	return formatDate(time.Now(), f.dateFormat)
}

func formatDate(t time.Time, format string) string {
	switch format {
	case "yyyy-mm-dd":
		return t.Format("2006-01-02")
	case "yymmdd":
		return t.Format("060102")
	case "ddmmyyyy":
		return t.Format("02012006")
	default: // yyyymmdd and anything unrecognized
		return t.Format("20060102")
	}
}
