package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/promomark/website/core/email"
)

// Config holds AWS SES v2 settings. Static credentials are optional; without
// them the default AWS credential chain is used.
type Config struct {
	Region           string `env:"SES_REGION" envDefault:"eu-central-1"`
	AccessKeyID      string `env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SES_SECRET_ACCESS_KEY"`
	ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
}

// SendEmailAPI is the subset of the SES v2 client used by Client.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Client delivers messages through SES as raw MIME.
type Client struct {
	api              SendEmailAPI
	configurationSet string
}

var _ email.Transport = (*Client)(nil)

// New loads the AWS configuration and creates an SES transport.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, fmt.Errorf("%w: Region is required", email.ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS config: %v", email.ErrInvalidConfig, err)
	}

	return NewWithAPI(sesv2.NewFromConfig(awsCfg), cfg.ConfigurationSet), nil
}

// NewWithAPI creates a transport around an existing SES client.
func NewWithAPI(api SendEmailAPI, configurationSet string) *Client {
	return &Client{api: api, configurationSet: configurationSet}
}

// Send submits msg as a raw MIME message. The envelope destination is To
// plus every Bcc, so Bcc addresses never appear in the headers.
func (c *Client) Send(ctx context.Context, msg *email.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", email.ErrInvalidParams)
	}

	var raw bytes.Buffer
	if _, err := msg.WriteTo(&raw); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, fmt.Errorf("build raw message: %w", err))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.Sender()),
		Destination: &types.Destination{
			ToAddresses: msg.Recipients(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw.Bytes()},
		},
	}
	if c.configurationSet != "" {
		input.ConfigurationSetName = aws.String(c.configurationSet)
	}

	if _, err := c.api.SendEmail(ctx, input); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, describe(err))
	}
	return nil
}

// describe surfaces the SES error code when the failure came from the API.
func describe(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("ses error: %s - %s: %w", apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}
	return err
}
