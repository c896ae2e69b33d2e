package email

// Transport names accepted by Config.Transport.
const (
	TransportSMTP     = "smtp"
	TransportPostmark = "postmark"
	TransportSES      = "ses"
	TransportDev      = "dev"
)

// Config selects and configures outgoing mail.
type Config struct {
	// From is the default sender; the dispatcher fails with ErrInvalidConfig
	// when it is blank and no per-message override is given.
	From      string `env:"SMTP_FROM"`
	Transport string `env:"EMAIL_TRANSPORT" envDefault:"smtp"`
	DevDir    string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	// PlainText adds a text/plain alternative derived from the HTML body.
	PlainText bool `env:"EMAIL_PLAIN_TEXT" envDefault:"false"`
}
