package model

import "github.com/jackc/pgx/v5/pgtype"

type Post struct {
	ID        int64            `json:"id"`
	AuthorID  int64            `json:"author_id"`
	GroupID   *int64           `json:"group_id,omitempty"`
	Text      string           `json:"text"`
	CreatedAt pgtype.Timestamp `json:"created_at"`
}

func (p *Post) String() string {
	return p.Text
}
