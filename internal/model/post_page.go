package model

import "yatube/internal/pagination"

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []*PostDetailed `json:"posts"`
	Page  pagination.Page `json:"page"`
}
