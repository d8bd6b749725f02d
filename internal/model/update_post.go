package model

type UpdatePostDTO struct {
	Text    *string `json:"text,omitempty"`
	GroupID *int64  `json:"group_id,omitempty"`
}
