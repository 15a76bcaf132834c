package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Intellimint/SalesCaller/internal/auth"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/campaigns"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/outcomes"
	"github.com/Intellimint/SalesCaller/internal/prompts"
	"github.com/Intellimint/SalesCaller/internal/rbac"
	"github.com/Intellimint/SalesCaller/internal/stats"
	"github.com/Intellimint/SalesCaller/internal/telephony"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth *auth.Manager

	// Operator credentials accepted by Login.
	OperatorUser     string
	OperatorPassword string

	Importer  *leads.Importer
	Leads     leads.Repository
	Calls     calls.Repository
	Campaigns *campaigns.Controller
	Outcomes  *outcomes.Service
	Prompts   prompts.Store
	Stats     *stats.Service
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks operator credentials and issues a JWT token pair.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, password required"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.OperatorUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.OperatorPassword)) == 1
	if h.OperatorUser == "" || !userOK || !passOK {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), req.Username, rbac.RoleAdmin)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Leads ---

// UploadLeads ingests a CSV file of leads. The file goes in the "file"
// multipart field; an optional "prompt_name" field names the script
// template for the imported leads.
func (h Handlers) UploadLeads(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	imported, err := h.Importer.ImportCSV(c.Request.Context(), f, c.PostForm("prompt_name"))
	if err != nil {
		if errors.Is(err, leads.ErrMissingPhoneColumn) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "csv must have a phone column"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "csv import failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

func (h Handlers) ListLeads(c *gin.Context) {
	out, err := h.Leads.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lead lookup failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Campaigns ---

type startCampaignRequest struct {
	Concurrency int    `json:"concurrency"`
	VoiceID     string `json:"voiceId"`
	AutoRetry   bool   `json:"autoRetry"`
}

func (h Handlers) StartCampaign(c *gin.Context) {
	var req startCampaignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}
	camp, err := h.Campaigns.Start(c.Request.Context(), campaigns.StartRequest{
		Concurrency: req.Concurrency,
		VoiceID:     req.VoiceID,
		AutoRetry:   req.AutoRetry,
	})
	if err != nil {
		if errors.Is(err, campaigns.ErrInvalidStart) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "campaign start failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "campaign started", "campaign": camp})
}

func (h Handlers) StopCampaign(c *gin.Context) {
	if err := h.Campaigns.Stop(c.Request.Context()); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "campaign stop failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "campaign stopped"})
}

func (h Handlers) CampaignStatus(c *gin.Context) {
	st, err := h.Campaigns.Status(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// --- Calls ---

// callView is a call joined with its lead's identifying fields for the
// dashboard list.
type callView struct {
	calls.Call
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// ListCalls returns recent calls, newest first. Query params: "status"
// filters by outcome ("all" or absent means no filter; "outcome" is
// accepted as an alias), "limit" caps the result count.
func (h Handlers) ListCalls(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	filter := c.Query("status")
	if filter == "" {
		filter = c.Query("outcome")
	}

	var (
		out []calls.Call
		err error
	)
	if filter != "" && filter != "all" {
		out, err = h.Calls.ListByOutcome(ctx, calls.Outcome(filter))
		if err == nil && limit > 0 && len(out) > limit {
			out = out[:limit]
		}
	} else {
		out, err = h.Calls.List(ctx, limit)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call lookup failed"})
		return
	}

	views := make([]callView, 0, len(out))
	for _, call := range out {
		v := callView{Call: call}
		if lead, err := h.Leads.Get(ctx, call.LeadID); err == nil {
			v.Phone = lead.Phone
			v.Company = lead.Company
			v.Contact = lead.Contact
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

// --- Stats ---

func (h Handlers) GetStats(c *gin.Context) {
	snap, err := h.Stats.Snapshot(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats lookup failed"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// --- Prompts ---

func (h Handlers) ListPrompts(c *gin.Context) {
	names, err := h.Prompts.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "prompt lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": names})
}

func (h Handlers) GetPrompt(c *gin.Context) {
	name := c.Param("name")
	text, ok, err := h.Prompts.Get(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, prompts.ErrInvalidName) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid prompt name"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "prompt lookup failed"})
		return
	}
	if !ok {
		if name == "default" {
			c.JSON(http.StatusOK, gin.H{"name": name, "text": prompts.DefaultScript, "builtin": true})
			return
		}
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "text": text})
}

type putPromptRequest struct {
	Text string `json:"text"`
}

func (h Handlers) PutPrompt(c *gin.Context) {
	var req putPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Text == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}
	name := c.Param("name")
	if err := h.Prompts.Put(c.Request.Context(), name, req.Text); err != nil {
		if errors.Is(err, prompts.ErrInvalidName) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid prompt name"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "prompt save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "text": req.Text})
}

// --- Webhook ---

// ProviderWebhook receives call completion callbacks from the telephony
// provider. Unknown call ids return 404 so the provider stops retrying.
func (h Handlers) ProviderWebhook(c *gin.Context) {
	hook, err := telephony.ParseCompletionWebhook(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}
	call, err := h.Outcomes.ProcessWebhook(c.Request.Context(), hook)
	if err != nil {
		if errors.Is(err, outcomes.ErrUnknownCall) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown call_id"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "call outcome recorded", "outcome": call.Outcome})
}
