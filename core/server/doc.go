// Package server runs the website's http.Server with production timeouts
// and graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx, router)
//
// Run blocks until ctx is cancelled, then stops accepting connections and
// waits up to the shutdown timeout for in-flight requests to finish.
// Optional TLS is configured from SERVER_TLS_CERT_FILE and
// SERVER_TLS_KEY_FILE.
package server
