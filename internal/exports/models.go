package exports

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// Document is a generated export ready to serve.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// UploadResponse is returned when the document was uploaded to the blob
// store instead of streamed inline.
type UploadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}
