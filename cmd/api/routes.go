package main

import (
	"github.com/Intellimint/SalesCaller/internal/httpapi"
	"github.com/Intellimint/SalesCaller/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider completion callbacks (public). Bland does not sign webhooks;
	// unknown call ids are rejected with 404.
	r.POST("/api/webhook", h.ProviderWebhook)

	// Token issuance (public, credential-checked).
	r.POST("/api/auth/login", h.Login)

	// protected API group
	api := r.Group("/api")
	api.Use(authMW)
	{
		read := rbac.RequireAnyRole(rbac.RoleOperator, rbac.RoleViewer)
		write := rbac.RequireAnyRole(rbac.RoleOperator)

		api.GET("/leads", read, h.ListLeads)
		api.POST("/upload-leads", write, h.UploadLeads)

		api.POST("/start-campaign", write, h.StartCampaign)
		api.POST("/stop-campaign", write, h.StopCampaign)
		api.GET("/campaign-status", read, h.CampaignStatus)

		api.GET("/calls", read, h.ListCalls)
		api.GET("/stats", read, h.GetStats)

		api.GET("/prompts", read, h.ListPrompts)
		api.GET("/prompts/:name", read, h.GetPrompt)
		api.PUT("/prompts/:name", write, h.PutPrompt)
	}
}
