package schedule

// TreatmentNotes is the fixed-shape visit record attached to a
// treatment row. The persistence adapter owns its serialization;
// missing fields default to zero values on read.
type TreatmentNotes struct {
	VisitType string   `json:"visitType"`
	TestDone  string   `json:"testDone"`
	Medicines []string `json:"medicines"`
	Notes     string   `json:"notes"`
}

// Normalized returns a copy with nil collections replaced so encoded
// payloads always carry a medicines array.
func (n TreatmentNotes) Normalized() TreatmentNotes {
	if n.Medicines == nil {
		n.Medicines = []string{}
	}
	return n
}

// TreatmentRecord is the treatment as the core sees it: notes already
// decoded into their fixed shape.
type TreatmentRecord struct {
	ID            uint
	AppointmentID uint
	Diagnosis     string
	Prescription  string
	Notes         TreatmentNotes
}
