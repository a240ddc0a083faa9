package domain

import "time"

// Creator snapshot, same idea as Poster but boards are not anonymous.
type Creator struct {
	Id   UserId `json:"id"`
	Name string `json:"name"`
}

type BoardCreationData struct {
	Slug        BoardSlug
	ShortName   string
	Name        string
	Description string
	CreatedBy   Creator
}

type Board struct {
	Id          BoardId   `json:"id"`
	Slug        BoardSlug `json:"slug"`
	ShortName   string    `json:"short_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedBy   Creator   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
