package model

// Row is a single roster entry, mapping column names to values as read
// from the CSV file. Rows are snapshots: they are never mutated after load.
type Row map[string]string

// Get returns the value of a column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Values returns a copy of the row merged with extra key/value pairs.
// Extras win on collision. Used to feed computed values (commit id,
// pipeline status) into output templates without touching the row itself.
func (r Row) Values(extras map[string]string) map[string]string {
	merged := make(map[string]string, len(r)+len(extras))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range extras {
		merged[k] = v
	}
	return merged
}

// Roster is an ordered list of rows with the header-derived column names.
type Roster struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the roster header contains the given column.
func (r *Roster) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}
