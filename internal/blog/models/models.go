package models

import (
	"fmt"
	"time"

	"paraiso/internal/sentinel"
)

// ErrNotFound is returned by stores when no post matches.
var ErrNotFound = fmt.Errorf("blog post %w", sentinel.ErrNotFound)

// Post is one language version of a blog article. A post is identified by
// (ID, Locale); every translation shares the ID and carries its own slug.
type Post struct {
	ID          int        `json:"id_noticia"`
	Locale      string     `json:"idioma"`
	Slug        string     `json:"slug"`
	Title       string     `json:"titulo"`
	Content     string     `json:"contenido"`
	Author      string     `json:"autor"`
	ImageURL    string     `json:"imagen_url"`
	ImageURL2   *string    `json:"imagen_url_2"`
	PublishedAt time.Time  `json:"fecha_publicacion"`
	UpdatedAt   *time.Time `json:"fecha_actualizacion"`
}

// SortTime is the instant posts are ordered by: the last update, or the
// publication date when the post was never updated.
func (p *Post) SortTime() time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	return p.PublishedAt
}
