package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/validation"
)

// ListRequest selects the posts of one language.
type ListRequest struct {
	Locale string `validate:"required,oneof=es en de"`
}

func (r *ListRequest) Normalize() {
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
	if r.Locale == "" {
		r.Locale = "es"
	}
}

func (r *ListRequest) Validate() error {
	return validation.Validate(r)
}

// SlugRequest looks a post up by slug. An empty locale matches any language.
type SlugRequest struct {
	Slug   string `validate:"required,max=255"`
	Locale string `validate:"omitempty,oneof=es en de"`
}

func (r *SlugRequest) Normalize() {
	r.Slug = strings.TrimSpace(r.Slug)
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
}

func (r *SlugRequest) Validate() error {
	return validation.Validate(r)
}

// IDRequest looks a translation up by post id.
type IDRequest struct {
	ID     int    `validate:"required,gt=0"`
	Locale string `validate:"required,oneof=es en de"`
}

func (r *IDRequest) Normalize() {
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
}

func (r *IDRequest) Validate() error {
	return validation.Validate(r)
}

func parseList(r *http.Request) (*ListRequest, error) {
	req := &ListRequest{Locale: r.URL.Query().Get("idioma")}
	return req, prepare(req)
}

func parseSlug(r *http.Request) (*SlugRequest, error) {
	req := &SlugRequest{Slug: chi.URLParam(r, "slug"), Locale: r.URL.Query().Get("idioma")}
	return req, prepare(req)
}

func parseID(r *http.Request) (*IDRequest, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "id must be a number")
	}
	req := &IDRequest{ID: id, Locale: r.URL.Query().Get("idioma")}
	return req, prepare(req)
}

type preparable interface {
	Normalize()
	Validate() error
}

func prepare(req preparable) error {
	req.Normalize()
	return req.Validate()
}
