package schema

import "regexp"

// Table is the structural capture of one create_table block.
type Table struct {
	Name        string   `json:"name"`
	Columns     []string `json:"columns"`               // declaration order
	ForeignKeys []string `json:"foreignKeys,omitempty"` // columns ending in _id
	Indexes     []string `json:"indexes,omitempty"`     // first column of each add_index
}

// Model maps table name to its captured structure. Names preserves the
// order in which tables were first encountered, for reproducible output.
type Model struct {
	Tables map[string]*Table
	Names  []string
}

// create_table blocks do not nest in schema.rb, so a single non-greedy
// span per block is enough, no stack-based parsing needed.
var (
	tableRe  = regexp.MustCompile(`(?s)create_table\s+"(\w+)".*?do\s*\|t\|(.*?)end`)
	columnRe = regexp.MustCompile(`t\.(\w+)\s+"(\w+)"`)
	fkRe     = regexp.MustCompile(`t\.\w+\s+"(\w+_id)"`)
	indexRe  = regexp.MustCompile(`add_index\s+"(\w+)",\s+\[?"(\w+)"?\]?`)
)

// Parse builds a Model from schema.rb content. Parsing never fails:
// unrecognized syntax is simply not reflected in the model, an accepted
// under-approximation.
func Parse(content string) *Model {
	m := &Model{Tables: make(map[string]*Table)}

	for _, block := range tableRe.FindAllStringSubmatch(content, -1) {
		t := &Table{Name: block[1]}
		body := block[2]

		for _, c := range columnRe.FindAllStringSubmatch(body, -1) {
			t.Columns = append(t.Columns, c[2])
		}
		for _, fk := range fkRe.FindAllStringSubmatch(body, -1) {
			t.ForeignKeys = append(t.ForeignKeys, fk[1])
		}

		if _, dup := m.Tables[t.Name]; !dup {
			m.Names = append(m.Names, t.Name)
		}
		// Duplicate table names: the last definition wins, keeping the
		// original position in Names.
		m.Tables[t.Name] = t
	}

	// add_index statements are file-scoped, not block-scoped. Only the
	// first column of a multi-column index is captured, and statements
	// referencing tables absent from the model are skipped.
	for _, idx := range indexRe.FindAllStringSubmatch(content, -1) {
		if t, ok := m.Tables[idx[1]]; ok {
			t.Indexes = append(t.Indexes, idx[2])
		}
	}

	return m
}

// Ordered returns the tables in first-encountered order.
func (m *Model) Ordered() []*Table {
	tables := make([]*Table, 0, len(m.Names))
	for _, name := range m.Names {
		tables = append(tables, m.Tables[name])
	}
	return tables
}

// Indexed reports whether the column has a captured index on this table.
func (t *Table) Indexed(column string) bool {
	for _, c := range t.Indexes {
		if c == column {
			return true
		}
	}
	return false
}
