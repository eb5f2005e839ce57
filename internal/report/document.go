package report

import "fmt"

// BlockKind distinguishes how a block is emphasised when rendered
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockNote           // secondary remark, e.g. a skipped test
	BlockKey            // headline result line
	BlockTable
)

// Table is a rendered grid of cells
type Table struct {
	Headers []string
	Rows    [][]string
}

// Block is one paragraph, note, key line or table
type Block struct {
	Kind  BlockKind
	Text  string
	Table *Table
}

// Section groups blocks under a heading
type Section struct {
	Heading string
	Blocks  []Block
}

// Document is the renderer-neutral analysis report
type Document struct {
	Title    string
	ReportID string
	Source   string
	Checksum string // abbreviated SHA-256 of the data file
	Sections []*Section
}

// NewDocument creates an empty report
func NewDocument(title, reportID, source string) *Document {
	return &Document{Title: title, ReportID: reportID, Source: source}
}

// AddSection appends a section and returns it for filling
func (d *Document) AddSection(heading string) *Section {
	s := &Section{Heading: heading}
	d.Sections = append(d.Sections, s)
	return s
}

// Textf appends a paragraph
func (s *Section) Textf(format string, args ...interface{}) *Section {
	s.Blocks = append(s.Blocks, Block{Kind: BlockText, Text: fmt.Sprintf(format, args...)})
	return s
}

// Notef appends a secondary remark
func (s *Section) Notef(format string, args ...interface{}) *Section {
	s.Blocks = append(s.Blocks, Block{Kind: BlockNote, Text: fmt.Sprintf(format, args...)})
	return s
}

// Keyf appends a headline result line
func (s *Section) Keyf(format string, args ...interface{}) *Section {
	s.Blocks = append(s.Blocks, Block{Kind: BlockKey, Text: fmt.Sprintf(format, args...)})
	return s
}

// AddTable appends a table
func (s *Section) AddTable(headers []string, rows [][]string) *Section {
	s.Blocks = append(s.Blocks, Block{Kind: BlockTable, Table: &Table{Headers: headers, Rows: rows}})
	return s
}
