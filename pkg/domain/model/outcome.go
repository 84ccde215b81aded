package model

// RowOutcome records the result of processing one roster row.
type RowOutcome struct {
	// Label identifies the row in logs and summaries, usually the value
	// of the login column.
	Label string
	Row   Row
	Err   error
}

// OK reports whether the row was processed successfully.
func (o RowOutcome) OK() bool {
	return o.Err == nil
}

// BatchResult is the outcome of folding an action over the whole roster.
type BatchResult struct {
	Outcomes []RowOutcome
}

// Failed returns the number of rows that ended in an error.
func (b *BatchResult) Failed() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded returns the number of rows processed without error.
func (b *BatchResult) Succeeded() int {
	return len(b.Outcomes) - b.Failed()
}
