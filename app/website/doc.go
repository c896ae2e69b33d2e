// Package website assembles the Promomark website: content tree, contact
// form, mail transport, metrics and the HTTP server.
//
//	cfg, err := website.LoadConfig()
//	if err != nil {
//		return err
//	}
//	app, err := website.NewApp(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// EMAIL_TRANSPORT selects smtp (default), postmark, ses or dev. The dev
// transport writes every message to EMAIL_DEV_DIR instead of sending it.
package website
