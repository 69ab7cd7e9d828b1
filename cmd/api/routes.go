package main

import (
	"errors"
	"net/http"
	"time"

	"callbridge/internal/config"
	"callbridge/internal/rest"
	"callbridge/internal/token"
	"callbridge/internal/webhook"
	"callbridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of call-control logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config, client *rest.Client, registry *webhook.Registry) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider event callbacks (public, signature-protected).
	{
		h := webhook.Handler{
			Client:   client,
			Registry: registry,
		}
		if cfg.Account.VerifySignatures {
			h.AuthToken = cfg.Account.AuthToken
		}
		r.POST("/webhooks/voice", h.HandleEvent)
	}

	// Account API (basic auth with the account credentials, like the
	// outbound client presents them).
	v1 := r.Group("/v1")
	v1.Use(token.RequireAccount(cfg.Account.AccountSID, cfg.Account.AuthToken))
	{
		v1.POST("/calls", func(c *gin.Context) { createCall(c, client) })
		v1.GET("/calls/:sid", func(c *gin.Context) {
			rec := client.Calls().Get(c.Request.Context(), c.Param("sid"))
			c.JSON(200, callView(rec))
		})
		v1.POST("/calls/:sid/hangup", func(c *gin.Context) { hangupCall(c, client) })
		v1.POST("/tokens/capability", func(c *gin.Context) { issueCapability(c, cfg) })
	}
}

type createCallRequest struct {
	To             string `json:"to" binding:"required"`
	From           string `json:"from"`
	URL            string `json:"url"`
	TwiML          string `json:"twiml"`
	ApplicationSID string `json:"application_sid"`

	MachineDetection string `json:"machine_detection"`
	Record           string `json:"record"`
	StatusCallback   string `json:"status_callback"`
	Timeout          int    `json:"timeout"`
}

func createCall(c *gin.Context, client *rest.Client) {
	log := logger.FromGin(c)

	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	rec, err := client.Calls().Create(c.Request.Context(), rest.CreateCallParams{
		To:               req.To,
		From:             req.From,
		URL:              req.URL,
		TwiML:            req.TwiML,
		ApplicationSID:   req.ApplicationSID,
		MachineDetection: req.MachineDetection,
		Record:           req.Record,
		StatusCallback:   req.StatusCallback,
		Timeout:          req.Timeout,
	})
	if err != nil {
		writeRestError(c, err)
		return
	}

	c.Set("call_sid", rec.SID)
	log.Info("call created", "call_sid", rec.SID, "status", rec.Status)
	c.JSON(http.StatusCreated, callView(rec))
}

func hangupCall(c *gin.Context, client *rest.Client) {
	rec := client.Calls().Get(c.Request.Context(), c.Param("sid"))
	if err := rec.Update(c.Request.Context(), rest.UpdateCallParams{Status: "completed"}); err != nil {
		writeRestError(c, err)
		return
	}
	c.JSON(200, callView(rec))
}

type capabilityRequest struct {
	ClientName     string `json:"client_name"`
	ApplicationSID string `json:"application_sid"`
	TTLSeconds     int    `json:"ttl_seconds"`
}

func issueCapability(c *gin.Context, cfg config.Config) {
	var req capabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	builder, err := token.NewCapability(cfg.Account.AccountSID, cfg.Account.AuthToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "capability signing unavailable"})
		return
	}
	if req.ClientName != "" {
		builder.AllowClientIncoming(req.ClientName)
	}
	if req.ApplicationSID != "" {
		builder.AllowClientOutgoing(req.ApplicationSID, nil)
	}

	signed, err := builder.Token(time.Now(), time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"token": signed})
}

func callView(rec *rest.CallRecord) gin.H {
	view := gin.H{
		"sid":              rec.SID,
		"account_sid":      rec.AccountSID,
		"to":               rec.To,
		"to_formatted":     rec.ToFormatted,
		"from":             rec.From,
		"from_formatted":   rec.FromFormatted,
		"status":           rec.Status,
		"direction":        rec.Direction,
		"api_version":      rec.APIVersion,
		"uri":              rec.URI(),
		"subresource_uris": rec.SubresourceURIs(),
	}
	if rec.AnsweredBy != "" {
		view["answered_by"] = rec.AnsweredBy
	}
	if rec.Duration != "" {
		view["duration"] = rec.Duration
	}
	return view
}

func writeRestError(c *gin.Context, err error) {
	if errors.Is(err, rest.ErrInvalidArgument) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var re *rest.RestError
	if errors.As(err, &re) {
		status := re.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.AbortWithStatusJSON(status, gin.H{"error": re.Message, "code": re.Code})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "upstream failure"})
}
