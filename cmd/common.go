/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/valpere/docalign/internal/validator"
)

// parsePairArgs turns "source=reference" arguments into pair specs.
func parsePairArgs(args []string) ([]validator.PairSpec, error) {
	var pairs []validator.PairSpec
	for _, arg := range args {
		src, ref, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("invalid pair %q: expected source=reference", arg)
		}
		pairs = append(pairs, validator.PairSpec{
			Source:    strings.TrimSpace(src),
			Reference: strings.TrimSpace(ref),
		})
	}
	return pairs, nil
}

// readManifest reads pair specs from a tab-separated file, one
// "source<TAB>reference" per line. Blank lines and #-comments are skipped.
func readManifest(manifestPath string) ([]validator.PairSpec, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	var pairs []validator.PairSpec
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		src, ref, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("manifest line %d: expected source<TAB>reference", lineNo)
		}
		pairs = append(pairs, validator.PairSpec{
			Source:    strings.TrimSpace(src),
			Reference: strings.TrimSpace(ref),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return pairs, nil
}

// pairLabel names a pair in diagnostics and history by its source file name.
func pairLabel(p validator.PairSpec) string {
	return path.Base(p.Source)
}

// datasetID extracts the short dataset ID from a full resource name.
func datasetID(resourceName string) string {
	return path.Base(resourceName)
}
