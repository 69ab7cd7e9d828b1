// Package token issues short-lived client capability tokens. A capability
// token authorizes a browser or mobile client to place or receive calls
// without ever holding the account auth token.
package token

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = time.Hour

var (
	ErrMissingAccount = errors.New("token: account SID and auth token are required")
	ErrNoScopes       = errors.New("token: at least one capability scope is required")
)

// Capability accumulates scopes and signs them into a JWT. The account SID
// doubles as the token issuer so the receiving side can tell accounts apart.
type Capability struct {
	accountSID string
	authToken  []byte

	incomingClient string
	outgoingAppSID string
	outgoingParams url.Values
}

func NewCapability(accountSID, authToken string) (*Capability, error) {
	if accountSID == "" || authToken == "" {
		return nil, ErrMissingAccount
	}
	return &Capability{
		accountSID: accountSID,
		authToken:  []byte(authToken),
	}, nil
}

// AllowClientIncoming lets the named client receive calls.
func (c *Capability) AllowClientIncoming(clientName string) *Capability {
	c.incomingClient = clientName
	return c
}

// AllowClientOutgoing lets the client place calls through the given
// application. Extra params are passed to the application verbatim.
func (c *Capability) AllowClientOutgoing(applicationSID string, params url.Values) *Capability {
	c.outgoingAppSID = applicationSID
	c.outgoingParams = params
	return c
}

type capabilityClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// Token signs the accumulated scopes. TTL values at or below zero select
// the one-hour default.
func (c *Capability) Token(now time.Time, ttl time.Duration) (string, error) {
	scope := c.scopeString()
	if scope == "" {
		return "", ErrNoScopes
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	claims := capabilityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.accountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.authToken)
}

// scopeString renders the scopes in the fixed "scope:service:capability"
// URI form, incoming before outgoing.
func (c *Capability) scopeString() string {
	var scopes []string
	if c.incomingClient != "" {
		scopes = append(scopes, scopeURI("client", "incoming", url.Values{"clientName": {c.incomingClient}}))
	}
	if c.outgoingAppSID != "" {
		params := url.Values{"appSid": {c.outgoingAppSID}}
		for k, vs := range c.outgoingParams {
			for _, v := range vs {
				params.Add("appParams", k+"="+v)
			}
		}
		scopes = append(scopes, scopeURI("client", "outgoing", params))
	}
	return strings.Join(scopes, " ")
}

func scopeURI(service, capability string, params url.Values) string {
	uri := "scope:" + service + ":" + capability
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}

// ParsedCapability is the verified view of a capability token.
type ParsedCapability struct {
	AccountSID string
	Scopes     []string
	ExpiresAt  time.Time
}

// Parse verifies signature and expiry and returns the token's scopes.
func Parse(tokenString, authToken string, now time.Time) (ParsedCapability, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims capabilityClaims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return []byte(authToken), nil
	}); err != nil {
		return ParsedCapability{}, err
	}
	if claims.Issuer == "" {
		return ParsedCapability{}, errors.New("token: issuer missing")
	}

	parsed := ParsedCapability{
		AccountSID: claims.Issuer,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if claims.Scope != "" {
		parsed.Scopes = strings.Split(claims.Scope, " ")
	}
	return parsed, nil
}
