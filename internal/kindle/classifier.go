package kindle

import (
	"regexp"
	"strings"
)

// LineKind is the shape of a single clippings line, independent of parser state.
type LineKind int

const (
	LineBlank LineKind = iota
	LineDelimiter
	LineHeader
	LineText
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineDelimiter:
		return "delimiter"
	case LineHeader:
		return "header"
	case LineText:
		return "text"
	default:
		return "unknown"
	}
}

// AnnotationKind is the kind named by a header line.
type AnnotationKind string

const (
	AnnotationHighlight AnnotationKind = "Highlight"
	AnnotationNote      AnnotationKind = "Note"
	AnnotationBookmark  AnnotationKind = "Bookmark"
)

const (
	entrySeparator = "=========="
	bodyMarker     = "-"
	byteOrderMark  = "\uFEFF"
)

// Matches: "- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM"
// or: "- Your Note on Location 10 | Added on Tuesday, 1 January 2020"
// The greedy prefix makes the date the fragment after the last "Added on".
var headerPattern = regexp.MustCompile(`^- Your (Highlight|Note|Bookmark).*Added on (.+)$`)

// Line is a classified clippings line.
type Line struct {
	Kind       LineKind
	Annotation AnnotationKind // set for LineHeader
	Trailing   string         // trimmed date fragment, set for LineHeader
	Text       string         // raw line without terminator
}

// IsHighlight reports whether the line is a highlight header.
func (l Line) IsHighlight() bool {
	return l.Kind == LineHeader && l.Annotation == AnnotationHighlight
}

// CanBeTitle reports whether the line may name a book when no highlight body is open.
func (l Line) CanBeTitle() bool {
	return l.Kind == LineText && !strings.HasPrefix(l.Text, bodyMarker)
}

// ClassifyLine classifies a line with its terminator already removed.
func ClassifyLine(raw string) Line {
	line := Line{Text: raw}

	if raw == entrySeparator {
		line.Kind = LineDelimiter
		return line
	}

	if matches := headerPattern.FindStringSubmatch(raw); matches != nil {
		line.Kind = LineHeader
		line.Annotation = AnnotationKind(matches[1])
		line.Trailing = strings.TrimSpace(matches[2])
		return line
	}

	if cleanTitle(raw) == "" {
		line.Kind = LineBlank
		return line
	}

	line.Kind = LineText
	return line
}

// cleanTitle strips byte-order marks and surrounding whitespace.
func cleanTitle(s string) string {
	s = strings.Trim(s, byteOrderMark)
	s = strings.TrimSpace(s)
	return strings.Trim(s, byteOrderMark)
}
