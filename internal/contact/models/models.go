package models

// Contact reasons offered by the site form.
const (
	ReasonInformation = "informacion"
	ReasonCommercial  = "comercial"
	ReasonInvoice     = "factura"
	ReasonCurriculum  = "curriculum"
	ReasonError       = "error"
	ReasonOther       = "otro"
)

// RequiresAttachment reports whether a reason must carry a file.
// "invoice" is the legacy spelling some clients still send.
func RequiresAttachment(reason string) bool {
	switch reason {
	case ReasonInvoice, ReasonCurriculum, "invoice":
		return true
	}
	return false
}

// Submission is a contact form as received from the site.
type Submission struct {
	Name       string `validate:"required,notblank,max=100,alphaspace"`
	Reason     string `validate:"required,notblank,max=50"`
	Email      string `validate:"required,email,max=255"`
	Message    string `validate:"required,notblank,max=5000"`
	Attachment *Attachment
}

// Attachment is an uploaded file that passed inspection.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
	SHA256      string
}

// Message is the mail built from a submission.
type Message struct {
	From       string
	To         string
	ReplyTo    string
	Subject    string
	Text       string
	HTML       string
	Attachment *Attachment
}
