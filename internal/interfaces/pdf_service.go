package interfaces

// PDFInfo is the structural information read from a PDF file
type PDFInfo struct {
	PageCount int    `json:"pageCount"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted"`
}

// PDFService handles PDF generation and inspection
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)

	// Inspect reads page count and version from PDF bytes
	Inspect(data []byte) (*PDFInfo, error)
}
