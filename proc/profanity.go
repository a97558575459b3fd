package proc

import (
	goaway "github.com/TwiN/go-away"
)

// ProfanityChecker decides whether text is unacceptable as a role name.
type ProfanityChecker interface {
	IsProfane(text string) bool
}

// GoAwayChecker is the default ProfanityChecker, backed by go-away's dictionary.
type GoAwayChecker struct {
	detector *goaway.ProfanityDetector
}

func NewGoAwayChecker() *GoAwayChecker {
	return &GoAwayChecker{
		detector: goaway.NewProfanityDetector().
			WithSanitizeLeetSpeak(true).
			WithSanitizeSpecialCharacters(true).
			WithSanitizeAccents(true),
	}
}

func (c *GoAwayChecker) IsProfane(text string) bool {
	return c.detector.IsProfane(text)
}
