// Package ses delivers email.Message values through AWS SES v2.
//
// Messages are always sent as raw MIME built by email.Message.WriteTo, so
// attachments, inline resources and Reply-To survive unchanged. Bcc
// recipients are passed in the destination list only.
//
//	transport, err := ses.New(ctx, ses.Config{Region: "eu-central-1"})
//
// Retries are left to the AWS SDK's standard retryer; Send itself makes one
// SendEmail call.
package ses
