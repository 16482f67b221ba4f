package models

// FAQEntry is a flat read-only question/answer record from the FAQ sheet.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Company is a participating company name from the Companies sheet.
type Company struct {
	Name string `json:"name"`
}
