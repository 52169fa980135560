// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RemoteFoodRecord is a source-of-truth nutrition document from the
// external corpus, keyed by a natural code. The local cache holds a
// lazily-populated projection of these records.
type RemoteFoodRecord struct {
	// Code is the natural key, unique within the corpus (e.g. "BRC0001C").
	Code string `json:"code" yaml:"code"`

	// Class is the corpus category (e.g. "Cereais e derivados").
	Class string `json:"class" yaml:"class"`

	// Description is the full descriptive name.
	Description string `json:"description" yaml:"description"`

	// SimplifiedDescription is a shorter search-friendly variant. May be
	// empty for older corpus entries.
	SimplifiedDescription string `json:"simplified_description,omitempty" yaml:"simplified_description,omitempty"`

	// Tags are free-form search labels attached by the corpus scraper.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Nutrients maps nutrient name to its measured value and unit.
	Nutrients map[string]Nutrient `json:"nutrients" yaml:"nutrients"`

	// Metadata records corpus provenance.
	Metadata RecordMetadata `json:"metadata" yaml:"metadata"`
}

// Nutrient is one measured value from the corpus. Value is either a
// number or a sentinel string for a trace amount.
type Nutrient struct {
	Value any    `json:"value" yaml:"value"`
	Unit  string `json:"unit" yaml:"unit"`
}

// RecordMetadata holds corpus provenance for a record.
type RecordMetadata struct {
	LastUpdated    time.Time `json:"last_updated" yaml:"last_updated"`
	Source         string    `json:"source" yaml:"source"`
	ScraperVersion string    `json:"scraper_version,omitempty" yaml:"scraper_version,omitempty"`
}

// traceSentinels are the corpus spellings for "trace amount". They all
// parse to zero.
var traceSentinels = map[string]bool{
	"tr": true, "traces": true, "trace": true, "*": true, "nd": true,
}

// Float returns the nutrient value as a float64. Trace sentinels,
// missing values, and unparseable strings yield 0.
func (n Nutrient) Float() float64 {
	switch v := n.Value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		if s == "" || traceSentinels[s] {
			return 0
		}
		// Corpus exports use a decimal comma in places.
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String implements fmt.Stringer for log output.
func (n Nutrient) String() string {
	return fmt.Sprintf("%v %s", n.Value, n.Unit)
}
