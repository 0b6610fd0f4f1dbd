package kindle

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/mrlokans/clippings/internal/entities"
)

const roundTripInput = `Book One
- Your Highlight on Location 10-12 | Added on Tuesday, 1 January 2020

This is a sufficiently long highlight passage
==========
Book One
- Your Note on Location 10 | Added on Tuesday, 1 January 2020

short note
==========
Book Two
- Your Highlight on Location 5 | Added on Wednesday, 2 January 2020

ok
==========
`

func parseString(t *testing.T, input string) (*entities.Library, Stats) {
	t.Helper()
	lib, stats, err := NewParser().ParseWithStats(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return lib, stats
}

func TestParser_Parse_RoundTrip(t *testing.T) {
	lib, stats := parseString(t, roundTripInput)

	if got := lib.Titles(); !reflect.DeepEqual(got, []string{"Book One"}) {
		t.Fatalf("expected only 'Book One', got %v", got)
	}

	records := lib.Records("Book One")
	want := []entities.Record{{
		Date: "Tuesday, 1 January 2020",
		Text: "This is a sufficiently long highlight passage",
	}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("unexpected records: %+v", records)
	}

	if lib.Has("Book Two") {
		t.Error("one-word highlight should not create a title")
	}
	if stats.Highlights != 2 || stats.Notes != 1 || stats.ShortDropped != 1 || stats.Records != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestParser_Parse_KindleDeviceFormat(t *testing.T) {
	input := "\uFEFFThe_Power_of_Now (Eckhart Tolle)\r\n" +
		"- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM\r\n" +
		"\r\n" +
		"would change for the better. Values would shift in the flotsam\r\n" +
		"==========\r\n" +
		"\uFEFFThe_Power_of_Now (Eckhart Tolle)\r\n" +
		"- Your Highlight on page 9 | Location 70-71 | Added on Tuesday, April 15, 2025 10:20:00 PM\r\n" +
		"\r\n" +
		"Watch the thinker, be present in the moment\r\n" +
		"==========\r\n"

	lib, _ := parseString(t, input)

	if lib.Len() != 1 {
		t.Fatalf("expected 1 title, got %d: %v", lib.Len(), lib.Titles())
	}
	title := lib.Titles()[0]
	if title != "The_Power_of_Now (Eckhart Tolle)" {
		t.Errorf("unexpected title %q", title)
	}

	records := lib.Records(title)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "Tuesday, April 15, 2025 10:16:21 PM" {
		t.Errorf("unexpected date %q", records[0].Date)
	}
	if records[1].Text != "Watch the thinker, be present in the moment" {
		t.Errorf("unexpected text %q", records[1].Text)
	}
}

func TestParser_Parse_RecordOrderFollowsDelimiters(t *testing.T) {
	input := `Book A
- Your Highlight on Location 1 | Added on first
one two three
==========
Book B
- Your Highlight on Location 1 | Added on second
four five six
==========
Book A
- Your Highlight on Location 2 | Added on third
seven eight nine
==========
`
	lib, _ := parseString(t, input)

	if got := lib.Titles(); !reflect.DeepEqual(got, []string{"Book A", "Book B"}) {
		t.Fatalf("unexpected title order %v", got)
	}

	records := lib.Records("Book A")
	if len(records) != 2 {
		t.Fatalf("expected 2 records for Book A, got %d", len(records))
	}
	if records[0].Date != "first" || records[1].Date != "third" {
		t.Errorf("records out of order: %+v", records)
	}
}

func TestParser_Parse_NoteAfterHighlightDiscardsBuffer(t *testing.T) {
	input := `Book
- Your Highlight on Location 1 | Added on Monday
this highlight body is long enough
- Your Note on Location 1 | Added on Monday
my own thoughts about it
==========
`
	lib, _ := parseString(t, input)

	if lib.Len() != 0 {
		t.Errorf("expected empty library, got %v", lib.Entries())
	}
}

func TestParser_Parse_UnterminatedHighlightDropped(t *testing.T) {
	input := `Book
- Your Highlight on Location 1 | Added on Monday
complete highlight with delimiter
==========
Book
- Your Highlight on Location 2 | Added on Tuesday
this one never gets a delimiter`

	lib, stats := parseString(t, input)

	records := lib.Records("Book")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Text != "complete highlight with delimiter" {
		t.Errorf("unexpected text %q", records[0].Text)
	}
	if stats.Unterminated != 1 {
		t.Errorf("expected 1 unterminated highlight, got %d", stats.Unterminated)
	}
}

func TestParser_Parse_TokenThreshold(t *testing.T) {
	tests := []struct {
		name string
		body string
		kept bool
	}{
		{name: "empty body", body: "", kept: false},
		{name: "one word", body: "ok", kept: false},
		{name: "two words", body: "page 12", kept: false},
		{name: "two words with padding", body: "   page    12   ", kept: false},
		{name: "three words", body: "three words here", kept: true},
		{name: "words split over lines", body: "one\ntwo\nthree", kept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Book\n- Your Highlight on Location 1 | Added on Monday\n\n" + tt.body + "\n==========\n"
			lib, _ := parseString(t, input)
			if lib.Has("Book") != tt.kept {
				t.Errorf("kept = %v, want %v", lib.Has("Book"), tt.kept)
			}
			for _, record := range lib.Records("Book") {
				if len(strings.Fields(record.Text)) <= 2 {
					t.Errorf("record with too few tokens: %q", record.Text)
				}
			}
		})
	}
}

func TestParser_Parse_MultilineBody(t *testing.T) {
	input := "Book\n" +
		"- Your Highlight on Location 1 | Added on Monday\n" +
		"\n" +
		"   first line of the passage   \n" +
		"\tsecond line\n" +
		"\n" +
		"==========\n"

	lib, _ := parseString(t, input)

	records := lib.Records("Book")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Text != "first line of the passage\nsecond line" {
		t.Errorf("unexpected text %q", records[0].Text)
	}
}

func TestParser_Parse_BodyLineStartingWithDash(t *testing.T) {
	input := `Book
- Your Highlight on Location 1 | Added on Monday
- a quoted line that starts with a dash
==========
`
	lib, _ := parseString(t, input)

	records := lib.Records("Book")
	if len(records) != 1 || records[0].Text != "- a quoted line that starts with a dash" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestParser_Parse_HighlightWithoutTitle(t *testing.T) {
	input := `- Your Highlight on Location 1 | Added on Monday
a highlight with no title line
==========
`
	lib, _ := parseString(t, input)

	if !lib.Has(entities.UntitledBook) {
		t.Fatalf("expected %q bucket, got %v", entities.UntitledBook, lib.Titles())
	}
}

func TestParser_Parse_HighlightInheritsPreviousTitle(t *testing.T) {
	input := `Book One
- Your Highlight on Location 1 | Added on Monday
first highlight for the book
==========
- Your Highlight on Location 2 | Added on Tuesday
second highlight without a title line
==========
`
	lib, _ := parseString(t, input)

	if len(lib.Records("Book One")) != 2 {
		t.Errorf("expected both records under 'Book One', got %v", lib.Entries())
	}
}

func TestParser_Parse_TitleNormalisation(t *testing.T) {
	input := "\uFEFF  Same Book  \n" +
		"- Your Highlight on Location 1 | Added on Monday\n" +
		"first highlight text here\n" +
		"==========\n" +
		"Same Book\n" +
		"- Your Highlight on Location 2 | Added on Tuesday\n" +
		"second highlight text here\n" +
		"==========\n" +
		"same book\n" +
		"- Your Highlight on Location 3 | Added on Wednesday\n" +
		"third highlight text here\n" +
		"==========\n"

	lib, _ := parseString(t, input)

	if got := lib.Titles(); !reflect.DeepEqual(got, []string{"Same Book", "same book"}) {
		t.Errorf("unexpected titles %v", got)
	}
	if len(lib.Records("Same Book")) != 2 {
		t.Errorf("expected BOM and whitespace variants to collapse")
	}
}

func TestParser_Parse_BookmarksIgnored(t *testing.T) {
	input := `Book
- Your Bookmark on Location 346 | Added on Saturday, 26 March 2016 15:46:21

==========
Book
- Your Highlight on Location 784-785 | Added on Saturday, 26 March 2016 18:37:26

a highlight after a bookmark entry
==========
`
	lib, stats := parseString(t, input)

	if len(lib.Records("Book")) != 1 {
		t.Errorf("expected 1 record, got %v", lib.Entries())
	}
	if stats.Bookmarks != 1 {
		t.Errorf("expected 1 bookmark, got %d", stats.Bookmarks)
	}
}

func TestParser_Parse_BookmarkInsideOpenHighlight(t *testing.T) {
	input := `Book
- Your Highlight on Location 1 | Added on Monday
a highlight body that never got its delimiter
- Your Bookmark on Location 2 | Added on Monday
==========
`
	lib, stats := parseString(t, input)

	if lib.Len() != 0 {
		t.Errorf("bookmark header should discard the open body, got %v", lib.Entries())
	}
	if stats.Bookmarks != 1 || stats.Records != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestParser_Parse_VeryLongLine(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("word ", 300000))
	input := "Book\n" +
		"- Your Highlight on Location 1 | Added on Monday\n" +
		body + "\n" +
		"==========\n" +
		"Book\n" +
		"- Your Highlight on Location 2 | Added on Tuesday\n" +
		"a normal highlight afterwards\n" +
		"==========\n"

	lib, stats := parseString(t, input)

	records := lib.Records("Book")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(records[0].Text) != len(body) {
		t.Errorf("long body truncated to %d bytes, want %d", len(records[0].Text), len(body))
	}
	if stats.Records != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestParser_Parse_ReadError(t *testing.T) {
	readErr := errors.New("device unplugged")

	_, _, err := NewParser().ParseWithStats(iotest.ErrReader(readErr))
	if !errors.Is(err, readErr) {
		t.Errorf("expected read error to surface, got %v", err)
	}
}

func TestParser_Parse_DelimiterWithEmptyBodyResetsState(t *testing.T) {
	input := `Book One
- Your Highlight on Location 1 | Added on Monday
==========
Book Two
- Your Highlight on Location 2 | Added on Tuesday
body of the second book
==========
`
	lib, _ := parseString(t, input)

	if got := lib.Titles(); !reflect.DeepEqual(got, []string{"Book Two"}) {
		t.Errorf("expected 'Book Two' to be read as a title, got %v", got)
	}
}

func TestParser_Parse_DateUsesLastAddedOn(t *testing.T) {
	input := `Book
- Your Highlight on Added on Page | Added on   Friday, 3 March 2023 09:00:00
passage with enough words
==========
`
	lib, _ := parseString(t, input)

	records := lib.Records("Book")
	if len(records) != 1 || records[0].Date != "Friday, 3 March 2023 09:00:00" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestParser_Parse_EmptyInput(t *testing.T) {
	lib, stats := parseString(t, "")

	if lib.Len() != 0 {
		t.Errorf("expected empty library")
	}
	if stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestParser_ParseLines(t *testing.T) {
	lines := strings.SplitAfter(roundTripInput, "\n")

	lib := NewParser().ParseLines(lines)

	if got := lib.Titles(); !reflect.DeepEqual(got, []string{"Book One"}) {
		t.Errorf("unexpected titles %v", got)
	}
}

func TestParser_ParseFile(t *testing.T) {
	t.Run("parses file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "My Clippings.txt")
		if err := os.WriteFile(path, []byte("\uFEFF"+roundTripInput), 0644); err != nil {
			t.Fatal(err)
		}

		lib, stats, err := NewParser().ParseFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lib.Len() != 1 || stats.Records != 1 {
			t.Errorf("unexpected result: %v %+v", lib.Titles(), stats)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, _, err := NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}
