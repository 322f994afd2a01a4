// Package cli provides output formatting for the kura command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kura/internal/api"
	"github.com/hyperjump/kura/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputCompact:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact, or json)", s)
	}
}

// WriteSearchResults writes search results to w in the given format. Unknown
// formats fall back to text.
func WriteSearchResults(w io.Writer, resp *api.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case OutputCompact:
		for _, hit := range resp.Results {
			fmt.Fprintf(w, "%6.1f  %s/%s  %s\n", hit.Score, hit.Collection, hit.ID, utils.TruncateWords(hit.Preview, 12))
		}
		return nil
	default:
		writeSearchResultsText(w, resp)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, resp *api.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", resp.Total, resp.TookMS)
	for i, hit := range resp.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.1f\n", i+1, hit.Score)
		fmt.Fprintf(w, "Record: %s/%s\n", hit.Collection, hit.ID)
		if hit.Preview != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(hit.Preview, 200))
		}
		fmt.Fprintln(w)
	}
}

// WriteStatus writes a status response to w in the given format. Unknown
// formats fall back to text.
func WriteStatus(w io.Writer, st *api.StatusResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Fprintf(w, "version:            %s\n", st.Version)
	fmt.Fprintf(w, "project:            %s\n", st.Project)
	fmt.Fprintf(w, "collections:        %d\n", st.Collections)
	fmt.Fprintf(w, "total_items:        %d\n", st.TotalItems)
	fmt.Fprintf(w, "search_index_size:  %d\n", st.SearchIndexSize)
	fmt.Fprintf(w, "estimated_size:     %d   # bytes of record payloads\n", st.EstimatedSize)
	if st.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # database + search index on disk\n", *st.DiskUsageBytes)
	}
	if st.Config != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		if st.Config.DataDir != "" {
			fmt.Fprintf(w, "data_dir:           %s\n", st.Config.DataDir)
		}
		if st.Config.DatabasePath != "" {
			fmt.Fprintf(w, "database_path:      %s\n", st.Config.DatabasePath)
		}
		if st.Config.BleveIndexPath != "" {
			fmt.Fprintf(w, "bleve_index_path:   %s\n", st.Config.BleveIndexPath)
		}
		if st.Config.CacheBackend != "" {
			fmt.Fprintf(w, "cache_backend:      %s\n", st.Config.CacheBackend)
		}
		if st.Config.SearchBackend != "" {
			fmt.Fprintf(w, "search_backend:     %s\n", st.Config.SearchBackend)
		}
	}
	return nil
}
