// Package recaptcha verifies Google reCAPTCHA v3 tokens.
//
// A token passes when Google reports success and the score is at least
// Config.MinScore (0.5 by default). Verify never returns an error: network
// failures, non-2xx responses and malformed bodies all count as a failed
// verification. Each call makes at most one request and does not retry.
//
//	client := recaptcha.New(cfg, recaptcha.WithLogger(log))
//	if !client.Verify(ctx, r.PostFormValue("g-recaptcha-response"), clientIP) {
//		// reject the submission
//	}
package recaptcha
