package entities

import "encoding/json"

// UntitledBook is the title used for highlights that appear before any title line.
const UntitledBook = "Untitled"

// Record is a single highlight taken from a clippings file.
// Date is the verbatim metadata fragment from the header line and is never parsed.
type Record struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// Library maps titles to their highlights, keeping first-appearance order
// for both titles and records.
type Library struct {
	titles  []string
	records map[string][]Record
}

func NewLibrary() *Library {
	return &Library{
		records: make(map[string][]Record),
	}
}

// Append adds a record under title, registering the title on first use.
func (l *Library) Append(title string, record Record) {
	if _, exists := l.records[title]; !exists {
		l.titles = append(l.titles, title)
	}
	l.records[title] = append(l.records[title], record)
}

// Titles returns the titles in the order they first received a record.
func (l *Library) Titles() []string {
	titles := make([]string, len(l.titles))
	copy(titles, l.titles)
	return titles
}

// Records returns a copy of the records stored for title.
func (l *Library) Records(title string) []Record {
	records, exists := l.records[title]
	if !exists {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

func (l *Library) Has(title string) bool {
	_, exists := l.records[title]
	return exists
}

// Len returns the number of titles.
func (l *Library) Len() int {
	return len(l.titles)
}

// RecordCount returns the total number of records across all titles.
func (l *Library) RecordCount() int {
	total := 0
	for _, records := range l.records {
		total += len(records)
	}
	return total
}

// BookHighlights is the JSON shape of one library entry.
type BookHighlights struct {
	Title   string   `json:"title"`
	Records []Record `json:"records"`
}

// Entries returns the library as an ordered slice.
func (l *Library) Entries() []BookHighlights {
	entries := make([]BookHighlights, 0, len(l.titles))
	for _, title := range l.titles {
		entries = append(entries, BookHighlights{Title: title, Records: l.Records(title)})
	}
	return entries
}

// MarshalJSON encodes the library as an ordered array so title order survives.
func (l *Library) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Entries())
}

func (l *Library) UnmarshalJSON(data []byte) error {
	var entries []BookHighlights
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.titles = nil
	l.records = make(map[string][]Record)
	for _, entry := range entries {
		for _, record := range entry.Records {
			l.Append(entry.Title, record)
		}
	}
	return nil
}
