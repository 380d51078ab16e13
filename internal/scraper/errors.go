package scraper

import (
	"fmt"
	"strings"
)

// InvalidCompetitionError reports a competition code outside the injected
// registry. Valid carries the known codes for user feedback.
type InvalidCompetitionError struct {
	Competition string
	Valid       []string
}

func (e InvalidCompetitionError) Error() string {
	return fmt.Sprintf("invalid competition %q, valid competitions: %s",
		e.Competition, strings.Join(e.Valid, ", "))
}

// InvalidSeasonError reports a season label that is not one of the
// competition's valid seasons.
type InvalidSeasonError struct {
	Season      string
	Competition string
	Valid       []string
}

func (e InvalidSeasonError) Error() string {
	return fmt.Sprintf("invalid season %q for competition %q, valid seasons: %s",
		e.Season, e.Competition, strings.Join(e.Valid, ", "))
}

// AmbiguousFieldError reports more than one data-header label matching a
// field that must occur at most once. It signals a page-layout change the
// extractor does not handle, not a recoverable condition.
type AmbiguousFieldError struct {
	Label   string
	Matches []string
}

func (e AmbiguousFieldError) Error() string {
	return fmt.Sprintf("ambiguous field %q: %d label matches (%s)",
		e.Label, len(e.Matches), strings.Join(e.Matches, "; "))
}
