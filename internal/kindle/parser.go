package kindle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mrlokans/clippings/internal/entities"
)

// minRecordTokens is the smallest number of whitespace-separated tokens
// a highlight needs to be kept. Shorter bodies are page numbers and similar noise.
const minRecordTokens = 3

// Stats counts what the parser saw while building a library.
type Stats struct {
	Highlights   int `json:"highlights"`    // highlight headers
	Notes        int `json:"notes"`         // note headers, never collected
	Bookmarks    int `json:"bookmarks"`     // bookmark headers, never collected
	ShortDropped int `json:"short_dropped"` // highlights with too few tokens
	Unterminated int `json:"unterminated"`  // highlight open at end of input
	Records      int `json:"records"`       // records placed in the library
}

// Parser parses Kindle My Clippings.txt format
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a clippings export and groups its highlights by title.
func (p *Parser) Parse(r io.Reader) (*entities.Library, error) {
	lib, _, err := p.ParseWithStats(r)
	return lib, err
}

// ParseWithStats is Parse plus counters describing skipped entries.
// Content is decoded as UTF-8; a leading byte-order mark is dropped.
// Lines have no length limit, only read failures are returned.
func (p *Parser) ParseWithStats(r io.Reader) (*entities.Library, Stats, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := bufio.NewReader(decoded)

	st := newState()
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			st.feed(trimLineEnding(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Stats{}, fmt.Errorf("error reading clippings: %w", err)
		}
	}

	return st.finish()
}

// ParseFile opens and parses the clippings file at path.
func (p *Parser) ParseFile(path string) (*entities.Library, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	return p.ParseWithStats(file)
}

// ParseLines parses already split lines. Lines may still carry "\n" or "\r\n".
func (p *Parser) ParseLines(lines []string) *entities.Library {
	st := newState()
	for _, line := range lines {
		st.feed(trimLineEnding(line))
	}
	lib, _, _ := st.finish()
	return lib
}

func trimLineEnding(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}

// state is the single-pass scan position: last title, date of the open
// highlight, whether a highlight body is open, and the body lines so far.
type state struct {
	lib        *entities.Library
	stats      Stats
	title      string
	hasTitle   bool
	date       string
	collecting bool
	buffer     []string
}

func newState() *state {
	return &state{lib: entities.NewLibrary()}
}

func (s *state) feed(raw string) {
	line := ClassifyLine(raw)

	switch line.Kind {
	case LineDelimiter:
		s.closeRecord()
		return

	case LineHeader:
		s.buffer = nil
		switch line.Annotation {
		case AnnotationHighlight:
			s.stats.Highlights++
			s.date = line.Trailing
			s.collecting = true
		case AnnotationNote:
			s.stats.Notes++
			s.collecting = false
		default:
			s.stats.Bookmarks++
			s.collecting = false
		}
		return
	}

	if s.collecting {
		s.buffer = append(s.buffer, strings.TrimSpace(line.Text))
		return
	}

	if line.CanBeTitle() {
		s.title = cleanTitle(line.Text)
		s.hasTitle = true
	}
}

// closeRecord handles a delimiter: emits the open highlight if it is long
// enough, then always leaves the state idle.
func (s *state) closeRecord() {
	if s.collecting && len(s.buffer) > 0 {
		text := strings.TrimSpace(strings.Join(s.buffer, "\n"))
		if len(strings.Fields(text)) >= minRecordTokens {
			s.lib.Append(s.currentTitle(), entities.Record{Date: s.date, Text: text})
			s.stats.Records++
		} else {
			s.stats.ShortDropped++
		}
	}
	s.buffer = nil
	s.collecting = false
}

func (s *state) currentTitle() string {
	if !s.hasTitle {
		return entities.UntitledBook
	}
	return s.title
}

func (s *state) finish() (*entities.Library, Stats, error) {
	if s.collecting {
		s.stats.Unterminated++
	}
	s.buffer = nil
	s.collecting = false
	return s.lib, s.stats, nil
}
