package models

import "time"

// Identity is the decoded credential of the signed-in user
type Identity struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SessionRecord is the durable copy of the signed-in identity
type SessionRecord struct {
	UserId    string    `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

// CookieRecord is a persisted backend session cookie
type CookieRecord struct {
	Host      string    `db:"host"`
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	Path      string    `db:"path"`
	Domain    string    `db:"domain"`
	ExpiresAt time.Time `db:"expires_at"`
	Secure    bool      `db:"secure"`
	HttpOnly  bool      `db:"http_only"`
}

// ExportRecord is one spreadsheet written by the export command
type ExportRecord struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	Title     string    `db:"title"`
	Path      string    `db:"path"`
	Rows      int       `db:"rows"`
	CreatedAt time.Time `db:"created_at"`
}
