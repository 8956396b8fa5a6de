package models

// uniform error payload
type ErrorResponse struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Duplicates []string `json:"duplicates,omitempty"` // colliding texts on batch create
}

// confirmation payload for deletes
type MessageResponse struct {
	Message string `json:"message"`
}
