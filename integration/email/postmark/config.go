package postmark

// Config holds Postmark API settings.
type Config struct {
	ServerToken   string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken  string `env:"POSTMARK_ACCOUNT_TOKEN"`
	MessageStream string `env:"POSTMARK_MESSAGE_STREAM" envDefault:"outbound"`
	TrackOpens    bool   `env:"POSTMARK_TRACK_OPENS" envDefault:"false"`
}
