package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
)

// VerifyWebhookSignature authenticates a raw webhook body against the
// shared secret. ElevenLabs sends the signature header as
// "t=<unix-timestamp>,v0=<hex-hmac>" where the HMAC-SHA256 is computed
// over "<timestamp>.<payload>".
//
// An empty secret disables verification entirely (local/staging
// convenience; config.Load refuses to start production without one).
// Everything else fails closed. The secret and signature values are
// never logged.
func VerifyWebhookSignature(payload []byte, signatureHeader, secret string) bool {
	if secret == "" {
		log.Println("[Webhook] No secret configured, skipping signature verification")
		return true
	}

	if signatureHeader == "" {
		log.Println("[Webhook] Missing signature header")
		return false
	}

	var timestamp, signature string
	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v0":
			signature = value
		}
	}

	if timestamp == "" || signature == "" {
		log.Println("[Webhook] Invalid signature header format")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant time, preventing timing side-channels
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		log.Println("[Webhook] Signature mismatch")
		return false
	}

	return true
}
