package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
)

// SignatureHeader carries the request signature on inbound callbacks.
const SignatureHeader = "X-Twilio-Signature"

// Sign computes the request signature for a callback: the full URL followed
// by every key+value pair in sorted key order, HMAC-SHA1 keyed by the auth
// token, base64-encoded.
func Sign(authToken, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(url))
	for _, k := range keys {
		mac.Write([]byte(k))
		mac.Write([]byte(params[k]))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the expected signature for the
// given token, URL and parameters. The comparison is constant time.
func Verify(authToken, url string, params map[string]string, signature string) bool {
	expected := Sign(authToken, url, params)
	return hmac.Equal([]byte(expected), []byte(signature))
}
