package storage

// Structured BQC note payload. The document renderer on the frontend turns
// this into docx paragraphs/tables, the backend only decides the content.

type ReportRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ReportSection struct {
	Number     string      `json:"number"`
	Title      string      `json:"title"`
	Paragraphs []string    `json:"paragraphs,omitempty"`
	Table      []ReportRow `json:"table,omitempty"`
}

type ReportDocument struct {
	RefNumber string          `json:"ref_number"`
	Date      string          `json:"date"`
	NoteTo    string          `json:"note_to"`
	Subject   string          `json:"subject"`
	Sections  []ReportSection `json:"sections"`

	Result *QualificationResult `json:"result"`
}
