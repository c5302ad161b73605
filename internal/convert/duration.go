// Package convert normalizes the free-text numeric fields scraped from the
// job sites: experience durations and salary mentions. Both sites write
// durations in Ukrainian with several inflections per unit, so matching is
// regex based and deliberately forgiving.
package convert

import (
	"math"
	"regexp"
	"strconv"
)

var (
	yearsPattern  = regexp.MustCompile(`(\d+)\s*р(ік|оки|оків|оку|ок|\.)`)
	monthsPattern = regexp.MustCompile(`(\d+)\s*міс(яць|яці|яців|яця|\.)`)
)

// Duration converts a free-text duration like "2 роки 3 місяці" into years.
// The year and month counts are matched independently and either may be
// absent. Malformed or empty input degrades to 0.0, never an error: a resume
// with an unreadable experience line still enters the pipeline.
func Duration(text string) float64 {
	if text == "" {
		return 0.0
	}

	years := 0
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		years, _ = strconv.Atoi(m[1])
	}

	months := 0
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		months, _ = strconv.Atoi(m[1])
	}

	return Round1(float64(years) + float64(months)/12)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
