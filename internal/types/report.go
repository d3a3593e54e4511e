package types

// RecordFailure describes one record that was rejected during an upload run.
type RecordFailure struct {
	// Position is the record's 1-based position in the extracted sequence.
	Position int    `json:"position"`
	Title    string `json:"title"`
	Reason   string `json:"reason"`
}

// UploadReport summarizes one upload run. Records holds the extracted
// records even when nothing was sent, so check mode can report on them.
type UploadReport struct {
	Records []IssueRecord   `json:"records"`
	Created int             `json:"created"`
	Failed  []RecordFailure `json:"failed,omitempty"`
}

// Attempted returns the number of records the run tried to create.
func (r *UploadReport) Attempted() int {
	return r.Created + len(r.Failed)
}
