package dto

// Page mirrors the limit/offset query contract of every listing endpoint.
type Page struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}
