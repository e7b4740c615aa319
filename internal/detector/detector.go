package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector spot-checks that corpus text looks like the language it is
// declared to be. The underlying lingua detector is expensive to build;
// reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}

// Matches reports whether text appears to be written in the language named
// by the ISO 639-1 code. Empty text and ambiguous detections pass; the
// check is advisory and must never block emission.
func (d *Detector) Matches(text, isoCode string) bool {
	detected, ok := d.DetectISO(text)
	if !ok {
		return true
	}
	return strings.EqualFold(detected, isoCode)
}
