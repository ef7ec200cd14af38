package models

// Expiry states stamped on batches.
const (
	ExpiryValid    = "Valid"
	ExpiryExpiring = "Expiring"
	ExpiryExpired  = "Expired"
)

// Batch (lote): a production or intake batch with a generated ORD-NNN id.
type Batch struct {
	ID          string `json:"id"`
	Product     string `json:"product"`
	IntakeDate  string `json:"intake_date"`
	Expiry      string `json:"expiry"`
	Status      string `json:"status"`
	Responsible string `json:"responsible"`
	Orders      string `json:"orders"`   // linked order references, free text
	Supplies    string `json:"supplies"` // supplies used, free text
	ExpiryState string `json:"expiry_state,omitempty"`
}

func (b Batch) SearchFields() []string {
	return []string{b.ID, b.Product, b.IntakeDate, b.Expiry, b.Status, b.Responsible, b.Orders, b.Supplies}
}
