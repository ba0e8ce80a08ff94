package model

// Correction is one entry of the append-only user-correction log. Every
// override of a suggested category appends a record; records are never
// edited or deleted, and every record feeds the next classifier retrain as
// an additional labeled example.
type Correction struct {
	Description string
	Category    string
}
