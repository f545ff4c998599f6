// Package blacklist holds the reviewed set of commonly used MPINs.
// The set is versioned YAML data, partitioned by code length, and immutable
// once parsed.
package blacklist

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// document is the on-disk layout of a blacklist file.
type document struct {
	Version   string   `yaml:"version"`
	FourDigit []string `yaml:"four_digit"`
	SixDigit  []string `yaml:"six_digit"`
}

// Set is an immutable, length-partitioned lookup of blacklisted codes.
// Safe for concurrent use.
type Set struct {
	version string
	byLen   map[int]map[string]struct{}
}

var defaultSet = sync.OnceValue(func() *Set {
	set, err := Parse(defaultYAML)
	if err != nil {
		panic("blacklist: embedded default.yaml is invalid: " + err.Error())
	}
	return set
})

// Default returns the embedded canonical blacklist.
func Default() *Set {
	return defaultSet()
}

// DefaultYAML returns a copy of the embedded canonical document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Parse decodes and validates a blacklist document. Every entry must consist
// of digits only and match the length of its section; a repeated entry is an
// error so that the source stays a reviewed, deduplicated list.
func Parse(data []byte) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode blacklist: %w", err)
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, fmt.Errorf("blacklist: version is required")
	}

	set := &Set{
		version: strings.TrimSpace(doc.Version),
		byLen:   make(map[int]map[string]struct{}, 2),
	}
	if err := set.addSection("four_digit", 4, doc.FourDigit); err != nil {
		return nil, err
	}
	if err := set.addSection("six_digit", 6, doc.SixDigit); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Set) addSection(name string, length int, codes []string) error {
	section := make(map[string]struct{}, len(codes))
	for i, code := range codes {
		if len(code) != length || !allDigits(code) {
			return fmt.Errorf("blacklist: %s[%d] = %q is not a %d-digit code", name, i, code, length)
		}
		if _, dup := section[code]; dup {
			return fmt.Errorf("blacklist: %s[%d] = %q is a duplicate", name, i, code)
		}
		section[code] = struct{}{}
	}
	s.byLen[length] = section
	return nil
}

// Contains reports whether code is blacklisted for its length class.
func (s *Set) Contains(code string) bool {
	section, ok := s.byLen[len(code)]
	if !ok {
		return false
	}
	_, found := section[code]
	return found
}

// Version returns the document version.
func (s *Set) Version() string {
	return s.version
}

// Len returns how many codes of the given length are blacklisted.
func (s *Set) Len(length int) int {
	return len(s.byLen[length])
}

// Codes returns a sorted copy of the codes of the given length.
func (s *Set) Codes(length int) []string {
	section := s.byLen[length]
	out := make([]string, 0, len(section))
	for code := range section {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
