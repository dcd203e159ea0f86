package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeNotFound, Message: "blog post not found"}
		s.Equal("blog post not found", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeUpstream}
		s.Equal("upstream_error", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	inner := New(CodeNotFound, "translation not found")
	wrapped := fmt.Errorf("lookup: %w", inner)

	s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
	s.False(errors.Is(wrapped, &Error{Code: CodeInternal}))
	s.False(errors.Is(errors.New("plain"), &Error{Code: CodeNotFound}))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the code of an existing domain error", func() {
		inner := New(CodeValidation, "name must only contain letters")
		err := Wrap(inner, CodeInternal, "contact form rejected")

		s.True(HasCode(err, CodeValidation))
		s.Equal("contact form rejected", err.Error())
		s.ErrorIs(err, inner)
	})

	s.Run("applies the given code to foreign errors", func() {
		root := errors.New("dial tcp: connection refused")
		err := Wrap(root, CodeUnavailable, "content api unreachable")

		s.True(HasCode(err, CodeUnavailable))
		s.ErrorIs(err, root)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeConflict, CodeOf(New(CodeConflict, "superseded")))
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.Equal(CodeMisconfigured, CodeOf(fmt.Errorf("init: %w", New(CodeMisconfigured, "missing id"))))
}
