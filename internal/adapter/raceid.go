package adapter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases venue and collapses every run of non-alphanumeric
// characters into a single underscore, trimming leading/trailing ones.
func Slug(venue string) string {
	lower := strings.ToLower(venue)
	slug := slugNonAlnum.ReplaceAllString(lower, "_")
	return strings.Trim(slug, "_")
}

// RaceID builds the "<prefix>_<slug(venue)>_<yyyymmdd>_<HHMM>_R<n><disc_suffix>"
// identifier every adapter stamps onto the races it produces.
func RaceID(prefix, venue string, start time.Time, raceNumber int, discipline models.Discipline) string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	eastern := start.In(loc)
	return prefix + "_" + Slug(venue) + "_" +
		eastern.Format("20060102") + "_" + eastern.Format("1504") +
		"_R" + strconv.Itoa(raceNumber) + discipline.Suffix()
}
