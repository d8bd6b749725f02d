package model

type CreatePostDTO struct {
	AuthorID int64  `json:"author_id"`
	Text     string `json:"text"`
	GroupID  *int64 `json:"group_id,omitempty"`
}
