// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// WarmFile is the on-disk list of queries used to pre-populate the cache
// before a practice starts using a fresh install offline-first.
type WarmFile struct {
	// Queries are run through the orchestrator in order.
	Queries []string `yaml:"queries"`

	// PageSize is the page size per query. Zero uses the default (20).
	PageSize int `yaml:"page_size,omitempty"`
}

const defaultWarmPageSize = 20

// WarmSummary holds counts from one warm-up run.
type WarmSummary struct {
	Queries int
	Results int
	Failed  int
}

// ReadWarmFile loads a warm-up query file from disk.
func ReadWarmFile(path string) (*WarmFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading warm file: %w", err)
	}
	var wf WarmFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing warm file: %w", err)
	}
	return &wf, nil
}

// Warm runs every query in wf through the orchestrator, letting the
// cache-aside path pull and cache corpus hits. Per-query progress is
// written to w. Queries that fail validation are counted and skipped;
// backend trouble degrades per query as it does for interactive search.
func Warm(ctx context.Context, o *Orchestrator, wf *WarmFile, w io.Writer) WarmSummary {
	pageSize := wf.PageSize
	if pageSize <= 0 {
		pageSize = defaultWarmPageSize
	}

	var summary WarmSummary
	for _, query := range wf.Queries {
		select {
		case <-ctx.Done():
			return summary
		default:
		}

		summary.Queries++
		foods, err := o.Search(ctx, query, 0, pageSize)
		if err != nil {
			fmt.Fprintf(w, "failed  %q: %v\n", query, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "warmed  %q (%d results)\n", query, len(foods))
		summary.Results += len(foods)
	}

	fmt.Fprintf(w, "\nqueries: %d, results: %d, failed: %d\n",
		summary.Queries, summary.Results, summary.Failed)
	return summary
}
