package models

// Versioned adds optimistic-lock helpers. Embed it anonymously.
//
// RowVersion starts at 0 on the first successful save and is incremented by
// exactly 1 on every successful update. Clients echo it back as the expected
// version of their next save; they never choose its value.
type Versioned struct {
	RowVersion int64 `json:"row_version"`
}

// ----- interface helpers -----
func (v *Versioned) GetRowVersion() int64  { return v.RowVersion }
func (v *Versioned) SetRowVersion(n int64) { v.RowVersion = n }
