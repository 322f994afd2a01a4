// Package e2e exercises the full store lifecycle over a mixed-collection
// corpus with scored query cases.
package e2e

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/search"
)

// CorpusRecord is one record in the test corpus and the collection it
// belongs to.
type CorpusRecord struct {
	Collection string
	Record     record.Record
}

// QueryCase defines a query and the hit that must come back first, with the
// score tier it must carry.
type QueryCase struct {
	Query          string
	WantCollection string
	WantID         string
	WantScore      float64
	Description    string
}

// Corpus holds records and query cases for the e2e tests.
type Corpus struct {
	Records    []CorpusRecord
	Cases      []QueryCase
	Searchable int
}

// BuildCorpus returns records across four collections. Every query case
// targets a signature word that appears in exactly one record, either at the
// start of its searchable text (prefix tier) or later (substring tier).
// Records in the metrics collection carry no text fields and stay unindexed.
func BuildCorpus() *Corpus {
	articles := []struct {
		title   string
		content string
	}{
		{"Zephyr Gateway Notes", "Frames are forwarded with a deterministic fanout strategy."},
		{"Quasar Pipeline", "Batches move through a columnar shuffle before merging."},
		{"Obsidian Migrations", "Schema changes roll forward with checksummed snapshots."},
		{"Herring Cache Design", "Eviction favors recency over frequency under pressure."},
		{"Lantern Query Planner", "Joins are reordered using cardinality estimates."},
		{"Granite Replication", "Followers acknowledge writes after quorum fsync."},
		{"Sable Checkpointing", "State is frozen into immutable segments hourly."},
		{"Willow Compaction", "Tombstones are dropped once segments rewrite."},
		{"Falcon Scheduler", "Tasks claim leases with monotonic deadlines."},
		{"Harbor Ingestion", "Documents arrive through a backpressured conveyor."},
		{"Meridian Sharding", "Keyspace splits track hotspot drift."},
		{"Copper Telemetry", "Counters flush to a ring of aggregators."},
	}

	todoTitles := []string{
		"Buy oat milk",
		"Renew passport before June",
		"Ship quarterly report",
		"Call the dentist",
		"Water the ferns",
		"Rotate backup drives",
		"File expense claims",
		"Label the spice jars",
	}

	notes := []struct {
		name string
		text string
	}{
		{"Launch retro", "The flagship product launch slipped a week."},
		{"Reading list", "Start with the distributed consensus survey."},
		{"Standup summary", "Blocked on the staging credentials rotation."},
		{"Travel ideas", "Kyoto in autumn, fjords in spring."},
		{"Pantry inventory", "Low on cardamom and saffron."},
	}

	var records []CorpusRecord

	articleIDs := make([]string, len(articles))
	for i, a := range articles {
		id := uuid.New().String()
		if i%2 == 1 {
			id = fmt.Sprintf("article-%02d", i)
		}
		articleIDs[i] = id
		records = append(records, CorpusRecord{
			Collection: "articles",
			Record:     record.Record{"id": id, "title": a.title, "content": a.content},
		})
	}

	todoIDs := make([]string, len(todoTitles))
	for i, title := range todoTitles {
		id := fmt.Sprintf("todo-%02d", i)
		todoIDs[i] = id
		records = append(records, CorpusRecord{
			Collection: "todos",
			Record:     record.Record{"id": id, "title": title},
		})
	}

	noteIDs := make([]string, len(notes))
	for i, n := range notes {
		id := fmt.Sprintf("note-%02d", i)
		noteIDs[i] = id
		records = append(records, CorpusRecord{
			Collection: "notes",
			Record:     record.Record{"id": id, "name": n.name, "text": n.text},
		})
	}

	searchable := len(records)

	records = append(records,
		CorpusRecord{Collection: "metrics", Record: record.Record{"id": "m1", "count": 42}},
		CorpusRecord{Collection: "metrics", Record: record.Record{"id": "m2", "count": 7, "done": true}},
		CorpusRecord{Collection: "metrics", Record: record.Record{"id": "m3", "ratio": 0.5}},
	)

	cases := []QueryCase{
		{"zephyr", "articles", articleIDs[0], search.ScorePrefix, "article title leads the searchable text"},
		{"fanout", "articles", articleIDs[0], search.ScoreSubstring, "signature word inside article content"},
		{"quorum", "articles", articleIDs[5], search.ScoreSubstring, "signature word inside article content"},
		{"falcon", "articles", articleIDs[8], search.ScorePrefix, "article title leads the searchable text"},
		{"renew", "todos", todoIDs[1], search.ScorePrefix, "todo title is the whole searchable text"},
		{"passport", "todos", todoIDs[1], search.ScoreSubstring, "word inside a todo title"},
		{"milk", "todos", todoIDs[0], search.ScoreSubstring, "scored scenario: substring, not prefix"},
		{"saffron", "notes", noteIDs[4], search.ScoreSubstring, "word inside a note body"},
		{"kyoto", "notes", noteIDs[3], search.ScoreSubstring, "note name precedes the text field"},
	}

	return &Corpus{Records: records, Cases: cases, Searchable: searchable}
}
