package handler

import (
	"strings"

	"paraiso/internal/locale"
	"paraiso/pkg/validation"
)

type ChangeRequest struct {
	Locale string `json:"locale" validate:"required,oneof=es en de"`
	Path   string `json:"path" validate:"omitempty,max=512,sitepath"`
}

func (r *ChangeRequest) Normalize() {
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
	r.Path = strings.TrimSpace(r.Path)
	if r.Path == "" {
		r.Path = "/"
	}
}

func (r *ChangeRequest) Validate() error {
	return validation.Validate(r)
}

type StateResponse struct {
	Locale    locale.Locale   `json:"locale"`
	MapLocale locale.Locale   `json:"map_locale"`
	Supported []locale.Locale `json:"supported"`
}
