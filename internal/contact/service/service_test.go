package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"paraiso/internal/contact/metrics"
	"paraiso/internal/contact/models"
	"paraiso/internal/contact/service/mocks"
	dErrors "paraiso/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mailer  *mocks.MockMailer
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	service *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mailer = mocks.NewMockMailer(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	svc, err := New(s.mailer, Recipients{
		From:      "web@paraisodeljamon.com",
		Info:      "info@paraisodeljamon.com",
		Webmaster: "webmaster@paraisodeljamon.com",
	}, slog.New(slog.NewTextHandler(s.logs, nil)), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.service = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func validSubmission() *models.Submission {
	return &models.Submission{
		Name:    "Ana Pérez",
		Reason:  models.ReasonInformation,
		Email:   "ana@example.com",
		Message: "¿Abrís el domingo?",
	}
}

func (s *ServiceSuite) TestRoutesToInfo() {
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg *models.Message) error {
		s.Equal("info@paraisodeljamon.com", msg.To)
		s.Equal("web@paraisodeljamon.com", msg.From)
		s.Equal("ana@example.com", msg.ReplyTo)
		s.Equal("Nuevo mensaje de Ana Pérez", msg.Subject)
		s.Contains(msg.Text, "Motivo: informacion")
		return nil
	})

	s.Require().NoError(s.service.Submit(context.Background(), validSubmission()))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(models.ReasonInformation, metrics.OutcomeSent)))
}

func (s *ServiceSuite) TestErrorReportsGoToWebmaster() {
	sub := validSubmission()
	sub.Reason = models.ReasonError
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg *models.Message) error {
		s.Equal("webmaster@paraisodeljamon.com", msg.To)
		return nil
	})

	s.Require().NoError(s.service.Submit(context.Background(), sub))
}

func (s *ServiceSuite) TestHTMLIsEscaped() {
	sub := validSubmission()
	sub.Message = "<script>alert(1)</script>"
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg *models.Message) error {
		s.NotContains(msg.HTML, "<script>")
		s.Contains(msg.HTML, "&lt;script&gt;")
		return nil
	})

	s.Require().NoError(s.service.Submit(context.Background(), sub))
}

func (s *ServiceSuite) TestValidation() {
	cases := map[string]func(*models.Submission){
		"name with digits": func(sub *models.Submission) { sub.Name = "Ana 2" },
		"missing name":     func(sub *models.Submission) { sub.Name = " " },
		"bad email":        func(sub *models.Submission) { sub.Email = "ana" },
		"missing reason":   func(sub *models.Submission) { sub.Reason = "" },
		"blank message":    func(sub *models.Submission) { sub.Message = "   " },
		"long message":     func(sub *models.Submission) { sub.Message = strings.Repeat("a", 5001) },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			sub := validSubmission()
			mutate(sub)
			err := s.service.Submit(context.Background(), sub)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}

func (s *ServiceSuite) TestAttachmentRequiredForInvoiceAndCurriculum() {
	for _, reason := range []string{models.ReasonInvoice, models.ReasonCurriculum, "invoice"} {
		s.Run(reason, func() {
			sub := validSubmission()
			sub.Reason = reason
			err := s.service.Submit(context.Background(), sub)
			s.ErrorIs(err, ErrAttachmentRequired)
		})
	}
}

func (s *ServiceSuite) TestAttachmentIsForwardedAndLogged() {
	att, err := InspectAttachment("cv.pdf", []byte("%PDF-1.7\nplain document"))
	s.Require().NoError(err)
	sub := validSubmission()
	sub.Reason = models.ReasonCurriculum
	sub.Attachment = att

	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg *models.Message) error {
		s.Same(att, msg.Attachment)
		return nil
	})

	s.Require().NoError(s.service.Submit(context.Background(), sub))
	s.Contains(s.logs.String(), att.SHA256)
}

func (s *ServiceSuite) TestDeliveryFailure() {
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("535 authentication failed"))

	err := s.service.Submit(context.Background(), validSubmission())
	s.ErrorIs(err, ErrDelivery)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(models.ReasonInformation, metrics.OutcomeFailed)))
}

func (s *ServiceSuite) TestUnknownReasonsShareOneLabel() {
	sub := validSubmission()
	sub.Reason = "prensa"
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	s.Require().NoError(s.service.Submit(context.Background(), sub))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("unknown", metrics.OutcomeSent)))
}
