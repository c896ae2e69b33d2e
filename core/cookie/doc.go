// Package cookie manages HTTP cookies for the website: plain, HMAC signed
// and AES-256-GCM encrypted values plus one-shot flash values that carry
// state across a POST/redirect/GET round trip.
//
// Signing and encryption keys are derived from each configured secret with
// HKDF-SHA256, so a single COOKIE_SECRETS entry never doubles as both keys.
// Secrets rotate by prepending a new entry: new cookies use the first
// secret while older ones still verify against the rest.
//
//	m, err := cookie.NewFromConfig(cfg)
//	if err != nil {
//		return err
//	}
//
//	_ = m.SetFlash(w, "contactSuccess", true)
//
//	var ok bool
//	if err := m.GetFlash(w, r, "contactSuccess", &ok); err == nil && ok {
//		// show the thank-you alert
//	}
package cookie
