package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"petit-marche/pkg/logger"
)

// ErrMissingAPIKey indicates the email provider is not configured.
var ErrMissingAPIKey = errors.New("resend api key not configured")

// Mailer sends transactional emails for payment proof workflows through
// Resend.
type Mailer struct {
	client        *resend.Client
	apiKey        string
	senderEmail   string
	operatorEmail string
	logger        *logger.Logger
}

func New(apiKey, senderEmail, operatorEmail string, log *logger.Logger) *Mailer {
	return &Mailer{
		client:        resend.NewClient(apiKey),
		apiKey:        apiKey,
		senderEmail:   senderEmail,
		operatorEmail: operatorEmail,
		logger:        log,
	}
}

// Attachment is a decoded file ready to be attached to an outgoing email.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// ParseDataURI decodes a "data:<mime>;base64,<payload>" string. Plain base64
// without the data URI prefix is accepted too.
func ParseDataURI(input, fallbackFilename string) (*Attachment, error) {
	payload := input
	contentType := "image/png"
	filename := fallbackFilename
	if filename == "" {
		filename = "screenshot.png"
	}

	if strings.HasPrefix(input, "data:") {
		sep := strings.Index(input, ",")
		if sep < 0 {
			return nil, fmt.Errorf("malformed data uri: no payload separator")
		}
		meta := input[len("data:"):sep]
		payload = input[sep+1:]
		if !strings.Contains(meta, "base64") {
			return nil, fmt.Errorf("malformed data uri: not base64 encoded")
		}
		if mime := strings.SplitN(meta, ";", 2)[0]; mime != "" {
			contentType = mime
		}
	}

	content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("empty attachment payload")
	}

	return &Attachment{Filename: filename, Content: content, ContentType: contentType}, nil
}

// CreditRequest describes a manual pack purchase reported by a client with a
// payment screenshot.
type CreditRequest struct {
	Pack        string
	PhoneNumber string
	Email       string
	FullName    string
	Screenshot  *Attachment
}

// CreditRequestReceipt carries the provider message ids of the two emails
// sent for a credit request.
type CreditRequestReceipt struct {
	TeamEmailID   string
	ClientEmailID string
}

// SendCreditRequest notifies the operator and confirms reception to the
// client. The operator email is mandatory; the client confirmation is
// best-effort when the requester left an email address.
func (m *Mailer) SendCreditRequest(ctx context.Context, req CreditRequest) (*CreditRequestReceipt, error) {
	if m.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	teamParams := &resend.SendEmailRequest{
		From:    m.senderEmail,
		To:      []string{m.operatorEmail},
		Subject: fmt.Sprintf("Nouvelle demande de crédits — pack %s", req.Pack),
		Html:    creditRequestOperatorHTML(req),
	}
	if req.Screenshot != nil {
		teamParams.Attachments = []*resend.Attachment{{
			Filename: req.Screenshot.Filename,
			Content:  req.Screenshot.Content,
		}}
	}

	teamResp, err := m.client.Emails.SendWithContext(ctx, teamParams)
	if err != nil {
		return nil, fmt.Errorf("send operator email: %w", err)
	}

	receipt := &CreditRequestReceipt{TeamEmailID: teamResp.Id}

	if req.Email != "" {
		clientParams := &resend.SendEmailRequest{
			From:    m.senderEmail,
			To:      []string{req.Email},
			Subject: "Petit Marché — demande de crédits reçue",
			Html:    creditRequestClientHTML(req),
		}
		clientResp, err := m.client.Emails.SendWithContext(ctx, clientParams)
		if err != nil {
			m.logger.Warn("client confirmation email failed for %s: %v", req.Email, err)
		} else {
			receipt.ClientEmailID = clientResp.Id
		}
	}

	return receipt, nil
}

// ManualPayment describes a payment proof relayed to the operator for manual
// reconciliation.
type ManualPayment struct {
	Phone      string
	Account    string
	Pack       string
	UserEmail  string
	Screenshot *Attachment
}

// SendManualPayment forwards a proof-of-payment to the operator and returns
// the provider message id.
func (m *Mailer) SendManualPayment(ctx context.Context, payment ManualPayment) (string, error) {
	if m.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	params := &resend.SendEmailRequest{
		From:    m.senderEmail,
		To:      []string{m.operatorEmail},
		Subject: fmt.Sprintf("Preuve de paiement — %s", payment.Phone),
		Html:    manualPaymentHTML(payment),
	}
	if payment.Screenshot != nil {
		params.Attachments = []*resend.Attachment{{
			Filename: payment.Screenshot.Filename,
			Content:  payment.Screenshot.Content,
		}}
	}

	resp, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("send manual payment email: %w", err)
	}
	return resp.Id, nil
}
