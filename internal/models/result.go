package models

type AnalyzeTextRequest struct {
	Text       string `json:"text"`
	TargetRole string `json:"target_role"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
