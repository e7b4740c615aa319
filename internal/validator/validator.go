// Package validator performs the pre-flight checks on document pair specs
// and language codes that must pass before any network or parsing work.
package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// PairSpec names one source document and its translated reference inside a
// storage bucket.
type PairSpec struct {
	Source    string
	Reference string
}

// ValidatePair rejects empty paths, mismatched file extensions between the
// two sides, and PDF input. It looks only at the paths; no fetch happens.
func ValidatePair(p PairSpec) error {
	if strings.TrimSpace(p.Source) == "" || strings.TrimSpace(p.Reference) == "" {
		return fmt.Errorf("source and reference paths must both be set")
	}

	srcExt := strings.ToLower(filepath.Ext(p.Source))
	refExt := strings.ToLower(filepath.Ext(p.Reference))
	if srcExt != refExt {
		return fmt.Errorf("file extension mismatch: %q vs %q", srcExt, refExt)
	}

	if srcExt == ".pdf" {
		return fmt.Errorf("PDF input is not supported")
	}

	return nil
}

// ValidateLanguages checks that both codes parse as BCP 47 language tags.
func ValidateLanguages(sourceLang, targetLang string) error {
	if _, err := language.Parse(sourceLang); err != nil {
		return fmt.Errorf("invalid source language %q: %w", sourceLang, err)
	}
	if _, err := language.Parse(targetLang); err != nil {
		return fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}
	return nil
}
