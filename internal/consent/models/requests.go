package models

import (
	"strings"

	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/validation"
)

// PolicyTarget identifies the policy page a prompt link leads to.
type PolicyTarget string

const (
	PolicyCookies PolicyTarget = "cookies"
	PolicyPrivacy PolicyTarget = "privacy"
)

// Path returns the unprefixed page path of the target.
func (t PolicyTarget) Path() string {
	switch t {
	case PolicyCookies:
		return "/politica-cookies"
	case PolicyPrivacy:
		return "/politica-privacidad"
	}
	return ""
}

type PendingRequest struct {
	Analysis        bool `json:"analysis"`
	AnalysisGoogle  bool `json:"analysis_google"`
	Personalization bool `json:"personalization"`
}

type PolicyLinkRequest struct {
	Target PolicyTarget `json:"target" validate:"required,oneof=cookies privacy"`
}

func (r *PolicyLinkRequest) Normalize() {
	r.Target = PolicyTarget(strings.ToLower(strings.TrimSpace(string(r.Target))))
}

func (r *PolicyLinkRequest) Validate() error {
	return validation.Validate(r)
}

type RevokeRequest struct {
	Categories []Category `json:"categories"`
}

func (r *RevokeRequest) Normalize() {
	for i, c := range r.Categories {
		r.Categories[i] = Category(strings.ToLower(strings.TrimSpace(string(c))))
	}
}

func (r *RevokeRequest) Validate() error {
	for _, c := range r.Categories {
		if !c.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown consent category: "+string(c))
		}
	}
	return nil
}
