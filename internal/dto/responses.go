package dto

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type UploadResponse struct {
	AccountID string       `json:"account_id"`
	Upserted  int          `json:"upserted"`
	Skipped   []SkippedRow `json:"skipped"`
	Zeroed    []SkippedRow `json:"zeroed"`
}

type BatchSalesResponse struct {
	Upserted int `json:"upserted"`
}

type DeleteSalesResponse struct {
	Deleted int64 `json:"deleted"`
}
