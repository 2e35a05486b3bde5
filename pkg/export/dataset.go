package export

// Dataset defines tabular export content. Notes are free lines rendered
// after the table (summary figures, remarks).
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Notes   []string
}

// Record returns the row values in header order.
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}
