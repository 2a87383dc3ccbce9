package polygon

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DefaultBranch is returned when a filename carries no digits.
const DefaultBranch = "0000"

// Type code tags, in the order they are tested.
const (
	TagEco = "Eco"
	TagExp = "Exp"
	TagRap = "Rap"
)

var (
	extPattern   = regexp.MustCompile(`(?i)\.(json|zip|kml)$`)
	digitPattern = regexp.MustCompile(`[0-9]+`)
)

// keywordFamilies lists each tag with the substrings that select it.
var keywordFamilies = []struct {
	tag      string
	keywords []string
}{
	{TagEco, []string{"eco"}},
	{TagExp, []string{"exp"}},
	{TagRap, []string{"rap", "r\u00e1p"}},
}

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time { return time.Now() }

// InLocation returns a clock that reports c's time in loc.
func (c Clock) InLocation(loc *time.Location) Clock {
	if loc == nil {
		return c
	}
	return func() time.Time { return c().In(loc) }
}

// BranchNumber derives the branch identifier from a filename: a trailing
// .json, .zip or .kml extension is dropped and the first run of digits is
// returned verbatim. Filenames without digits yield DefaultBranch.
func BranchNumber(filename string) string {
	base := extPattern.ReplaceAllString(filename, "")
	if m := digitPattern.FindString(base); m != "" {
		return m
	}
	return DefaultBranch
}

// Classify returns the type code for a polygon name. Keywords match as
// substrings anywhere in the lower-cased name, so "Exponential" counts as Exp.
func Classify(name string) string {
	lower := strings.ToLower(norm.NFC.String(name))

	var tags []string
	for _, fam := range keywordFamilies {
		for _, kw := range fam.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, fam.tag)
				break
			}
		}
	}
	return strings.Join(tags, "_")
}

// FormatName builds the canonical label Pol_{typeCode}_{branch}_{DDMMYYYY}.
// The date is read from today in its own location. originalName does not
// affect the label; it is accepted so callers pass the full naming input.
func FormatName(originalName, branch, typeCode string, today time.Time) string {
	return fmt.Sprintf("Pol_%s_%s_%s", typeCode, branch, DateStamp(today))
}

// DateStamp formats t as zero-padded DDMMYYYY.
func DateStamp(t time.Time) string {
	return t.Format("02012006")
}
