// Package logger builds *slog.Logger instances for the website and provides
// small attribute helpers so log keys stay consistent across packages.
//
// Production uses JSON output; development uses a colourised handler:
//
//	log := logger.New(logger.WithProduction("website"), logger.WithLevel(slog.LevelDebug))
//	log.Info("contact form submitted", logger.RequestID(id), logger.Template("emails/contact_form"))
//
// Helpers such as Error, RequestID and Template return an empty slog.Attr for
// zero values, which slog drops from the output.
package logger
