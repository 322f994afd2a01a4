package e2e

import (
	"strings"
	"testing"

	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/search"
)

// The query cases only hold if every signature word lives in exactly one
// record, so verify the fixture before trusting the e2e assertions.
func TestCorpusSignatures(t *testing.T) {
	c := BuildCorpus()

	if len(c.Records) == 0 || len(c.Cases) == 0 {
		t.Fatal("corpus is empty")
	}

	seen := make(map[string]bool)
	searchable := 0
	for _, cr := range c.Records {
		id, ok := record.IDKey(cr.Record["id"])
		if !ok {
			t.Fatalf("record in %s has no usable id", cr.Collection)
		}
		key := cr.Collection + "/" + id
		if seen[key] {
			t.Fatalf("duplicate record %s", key)
		}
		seen[key] = true
		if record.SearchableText(cr.Record) != "" {
			searchable++
		}
	}
	if searchable != c.Searchable {
		t.Fatalf("searchable count = %d, corpus claims %d", searchable, c.Searchable)
	}

	for _, qc := range c.Cases {
		matches := 0
		for _, cr := range c.Records {
			text := record.SearchableText(cr.Record)
			pos := strings.Index(text, qc.Query)
			if pos < 0 {
				continue
			}
			matches++
			id, _ := record.IDKey(cr.Record["id"])
			if cr.Collection != qc.WantCollection || id != qc.WantID {
				t.Errorf("query %q matches %s/%s, case expects %s/%s",
					qc.Query, cr.Collection, id, qc.WantCollection, qc.WantID)
			}
			switch qc.WantScore {
			case search.ScorePrefix:
				if pos != 0 {
					t.Errorf("query %q found at offset %d, expected prefix", qc.Query, pos)
				}
			case search.ScoreSubstring:
				if pos == 0 {
					t.Errorf("query %q found at offset 0, expected substring", qc.Query)
				}
			default:
				t.Errorf("query %q expects unknown score %v", qc.Query, qc.WantScore)
			}
		}
		if matches != 1 {
			t.Errorf("query %q matches %d records, want exactly 1", qc.Query, matches)
		}
	}
}

func TestCorpusMetricsRecordsAreUnsearchable(t *testing.T) {
	c := BuildCorpus()

	for _, cr := range c.Records {
		if cr.Collection != "metrics" {
			continue
		}
		if text := record.SearchableText(cr.Record); text != "" {
			t.Errorf("metrics record has searchable text %q", text)
		}
	}
}
