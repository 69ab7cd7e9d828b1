package webhook

import "testing"

func TestVerifyRoundTrip(t *testing.T) {
	token := "12345"
	url := "https://mycompany.com/myapp.php?foo=1&bar=2"
	params := map[string]string{
		"CallSid":    "CA1234567890ABCDE",
		"Caller":     "+12349013030",
		"Digits":     "1234",
		"From":       "+12349013030",
		"To":         "+18005551212",
		"CallStatus": "completed",
	}

	sig := Sign(token, url, params)
	if sig == "" {
		t.Fatalf("empty signature")
	}
	if !Verify(token, url, params, sig) {
		t.Fatalf("signature did not verify")
	}
}

func TestVerifyRejectsAlteredSignature(t *testing.T) {
	token := "secret"
	url := "https://example.com/events"
	params := map[string]string{"CallSid": "CA1", "From": "+15550001111"}

	sig := Sign(token, url, params)
	for i := range sig {
		altered := []byte(sig)
		altered[i] ^= 0x01
		if Verify(token, url, params, string(altered)) {
			t.Fatalf("altered signature at index %d verified", i)
		}
	}
}

func TestVerifyRejectsChangedInputs(t *testing.T) {
	token := "secret"
	url := "https://example.com/events"
	params := map[string]string{"CallSid": "CA1"}
	sig := Sign(token, url, params)

	if Verify("other", url, params, sig) {
		t.Fatalf("wrong token verified")
	}
	if Verify(token, url+"/x", params, sig) {
		t.Fatalf("wrong url verified")
	}
	if Verify(token, url, map[string]string{"CallSid": "CA2"}, sig) {
		t.Fatalf("wrong params verified")
	}
	if Verify(token, url, params, "") {
		t.Fatalf("empty signature verified")
	}
}

func TestSignSortsKeys(t *testing.T) {
	token := "secret"
	url := "https://example.com/events"
	a := Sign(token, url, map[string]string{"b": "2", "a": "1"})
	b := Sign(token, url, map[string]string{"a": "1", "b": "2"})
	if a != b {
		t.Fatalf("signature depends on insertion order: %q vs %q", a, b)
	}
}
