package webhook

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"callbridge/internal/rest"
	"callbridge/pkg/logger"
)

// Handler receives provider callbacks, normalizes them into the canonical
// parameter set, and hands them to application code for a response document.
//
// No call-control logic here.
//
// Authentication:
//   - when AuthToken is set, requests must carry a valid signature header;
//     unsigned or mis-signed requests are rejected before normalization.

type Handler struct {
	// Client mirrors response verbs as live call-control actions. Optional.
	Client *rest.Client

	// Registry remembers which client handles which call. Optional.
	Registry *Registry

	// AuthToken enables signature verification when non-empty.
	AuthToken string

	// Respond builds the response document for a normalized event. When nil
	// the handler echoes the canonical parameters as JSON, which is useful
	// for wiring checks.
	Respond func(c *gin.Context, p Params)
}

func (h Handler) HandleEvent(c *gin.Context) {
	log := logger.FromGin(c)

	payload, err := decodePayload(c)
	if err != nil {
		log.Warn("event decode failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if h.AuthToken != "" {
		if !h.verified(c, payload) {
			log.Warn("event signature rejected", "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
	}

	params := Normalize(payload)
	c.Set("call_sid", params["CallSid"])
	if h.Registry != nil && h.Client != nil {
		if ok := h.Registry.Put(params["CallSid"], h.Client); !ok {
			log.Warn("context registry full", "call_sid", params["CallSid"])
		}
	}

	log.Info("event normalized", "call_sid", params["CallSid"], "call_status", params["CallStatus"])

	if h.Respond != nil {
		h.Respond(c, params)
		return
	}
	c.JSON(http.StatusOK, params)
}

// decodePayload accepts JSON bodies and classic form posts. Form values are
// flattened to their first value.
func decodePayload(c *gin.Context) (map[string]any, error) {
	ct := c.ContentType()
	if strings.Contains(ct, "json") {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			payload[k] = vs[0]
		}
	}
	return payload, nil
}

func (h Handler) verified(c *gin.Context, payload map[string]any) bool {
	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		return false
	}
	params := make(map[string]string, len(payload))
	for k, v := range payload {
		params[k] = stringify(v)
	}
	url := requestURL(c.Request)
	return Verify(h.AuthToken, url, params, signature)
}

func requestURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
