package model

import "github.com/jackc/pgx/v5/pgtype"

type User struct {
	ID           int64            `json:"id"`
	Username     string           `json:"username"`
	PasswordHash string           `json:"-"`
	PassSalt     string           `json:"-"`
	CreatedAt    pgtype.Timestamp `json:"created_at"`
}
