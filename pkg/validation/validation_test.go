package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "paraiso/pkg/domain-errors"
)

type contactLike struct {
	Name   string `validate:"required,notblank,alphaspace,max=100"`
	Email  string `validate:"required,email"`
	Reason string `validate:"required,oneof=info error invoice curriculum"`
	Path   string `validate:"omitempty,sitepath"`
}

func TestValidate(t *testing.T) {
	valid := contactLike{Name: "José Núñez", Email: "jose@example.com", Reason: "info", Path: "/blog/x"}
	require.NoError(t, Validate(&valid))

	tests := []struct {
		name    string
		mutate  func(*contactLike)
		message string
	}{
		{"digits in name", func(c *contactLike) { c.Name = "R2D2" }, "name must only contain letters and spaces"},
		{"blank name", func(c *contactLike) { c.Name = "   " }, "name must not be blank"},
		{"bad email", func(c *contactLike) { c.Email = "nope" }, "email must be a valid email"},
		{"unknown reason", func(c *contactLike) { c.Reason = "spam" }, "reason must be one of [info error invoice curriculum]"},
		{"absolute url path", func(c *contactLike) { c.Path = "//evil.example/x" }, "path must be a site relative path"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := Validate(&c)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestIsLettersAndSpaces(t *testing.T) {
	assert.True(t, IsLettersAndSpaces("María del Mar"))
	assert.True(t, IsLettersAndSpaces("Jürgen Müller"))
	assert.False(t, IsLettersAndSpaces("O'Brien"))
	assert.False(t, IsLettersAndSpaces("Ana 2"))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "analysis_google", toSnakeCase("AnalysisGoogle"))
	assert.Equal(t, "screen_resolution", toSnakeCase("ScreenResolution"))
	assert.Equal(t, "locale", toSnakeCase("Locale"))
}
