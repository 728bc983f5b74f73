package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

var (
	ErrNoSender    = errors.New("sender email address is not configured")
	ErrNoRecipient = errors.New("recipient email address is empty")
)

// sendAPI is the SES call the mailer makes
type sendAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends transactional emails through Amazon SES
type SESMailer struct {
	client sendAPI
	sender string
	logger *zap.Logger
}

// NewSESMailer loads AWS config for the region; static credentials are used when set
func NewSESMailer(ctx context.Context, cfg config.EmailConfig) (*SESMailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return newSESMailer(ses.NewFromConfig(awsCfg), cfg.SenderEmail), nil
}

func newSESMailer(client sendAPI, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender, logger: util.GetLogger()}
}

type confirmationData struct {
	Order *models.Order
	Items []models.OrderItem
}

// SendOrderConfirmation emails the order summary
func (m *SESMailer) SendOrderConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	subject := fmt.Sprintf("Order %s confirmed - thank you for shopping with Kurtis Boutique", order.OrderNumber)
	data := confirmationData{Order: order, Items: items}
	return m.send(ctx, order.Email, subject, confirmationHTML, confirmationText, data)
}

// SendShipmentUpdate emails the courier and tracking details
func (m *SESMailer) SendShipmentUpdate(ctx context.Context, order *models.Order) error {
	subject := fmt.Sprintf("Your order %s is on its way", order.OrderNumber)
	return m.send(ctx, order.Email, subject, shipmentHTML, shipmentText, order)
}

func (m *SESMailer) send(ctx context.Context, to, subject string, html *htmltemplate.Template, text *texttemplate.Template, data interface{}) error {
	if m.sender == "" {
		return ErrNoSender
	}
	if to == "" {
		return ErrNoRecipient
	}

	var htmlBody, textBody bytes.Buffer
	if err := html.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render html body: %w", err)
	}
	if err := text.Execute(&textBody, data); err != nil {
		return fmt.Errorf("failed to render text body: %w", err)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody.String()),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(textBody.String()),
				},
			},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("subject", subject),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
