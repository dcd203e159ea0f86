package models

import (
	"cmp"
	"strings"
	"time"
)

// Product is one language version of a charcuterie catalogue entry.
type Product struct {
	ID          int       `json:"id_producto"`
	Locale      string    `json:"idioma"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	ImageURL    string    `json:"imagen_url"`
	Category    string    `json:"categoria"`
	CreatedAt   time.Time `json:"fecha"`
}

// Compare orders products by category, then by name.
func Compare(a, b Product) int {
	if c := cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category)); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}
