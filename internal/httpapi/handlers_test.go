package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/auth"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/campaigns"
	"github.com/Intellimint/SalesCaller/internal/config"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/outcomes"
	"github.com/Intellimint/SalesCaller/internal/prompts"
	"github.com/Intellimint/SalesCaller/internal/stats"

	"github.com/gin-gonic/gin"
)

type nopDialer struct{}

func (nopDialer) Trigger() {}

type testEnv struct {
	handlers Handlers
	leadRepo *leads.MemoryRepo
	callRepo *calls.MemoryRepo
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	leadRepo := leads.NewMemoryRepo()
	callRepo := calls.NewMemoryRepo()
	campaignRepo := campaigns.NewMemoryRepo()
	auditor := audit.NewService(audit.NewMemoryRepo())

	mgr, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}

	h := Handlers{
		Auth:             mgr,
		OperatorUser:     "operator",
		OperatorPassword: "hunter2",
		Importer:         leads.NewImporter(leadRepo),
		Leads:            leadRepo,
		Calls:            callRepo,
		Campaigns:        campaigns.NewController(campaignRepo, leadRepo, nopDialer{}, auditor),
		Outcomes:         outcomes.NewService(callRepo, leadRepo, auditor, nil),
		Prompts:          prompts.NewMemoryStore(),
		Stats:            stats.NewService(leadRepo, callRepo),
	}

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/webhook", h.ProviderWebhook)
	r.POST("/api/upload-leads", h.UploadLeads)
	r.GET("/api/leads", h.ListLeads)
	r.POST("/api/start-campaign", h.StartCampaign)
	r.GET("/api/campaign-status", h.CampaignStatus)
	r.GET("/api/calls", h.ListCalls)
	r.GET("/api/stats", h.GetStats)
	r.GET("/api/prompts/:name", h.GetPrompt)
	r.PUT("/api/prompts/:name", h.PutPrompt)

	return &testEnv{handlers: h, leadRepo: leadRepo, callRepo: callRepo, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/login", "application/json",
		[]byte(`{"username":"operator","password":"hunter2"}`))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["access_token"] == "" || resp["refresh_token"] == "" {
		t.Fatalf("missing tokens: %v", resp)
	}

	w = e.do(t, http.MethodPost, "/api/auth/login", "application/json",
		[]byte(`{"username":"operator","password":"wrong"}`))
	if w.Code != 401 {
		t.Fatalf("expected 401 for bad password, got %d", w.Code)
	}
}

func TestUploadLeads(t *testing.T) {
	e := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "leads.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("phone,company,contact\n+15550001111,Acme,Dana\n+15550002222,Globex,Lee\n")); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mw.Close()

	w := e.do(t, http.MethodPost, "/api/upload-leads", mw.FormDataContentType(), buf.Bytes())
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); !strings.Contains(got, `"imported":2`) {
		t.Fatalf("unexpected body: %s", got)
	}

	all, err := e.leadRepo.List(context.Background())
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("%d leads stored, want 2", len(all))
	}
}

func TestStartCampaignRejectsNegativeConcurrency(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/start-campaign", "application/json",
		[]byte(`{"concurrency":-1}`))
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCampaignLifecycle(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/start-campaign", "application/json",
		[]byte(`{"concurrency":3,"voiceId":"nat"}`))
	if w.Code != 200 {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/campaign-status", "", nil)
	if w.Code != 200 {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}
	var st campaigns.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !st.IsActive {
		t.Fatal("campaign should be active after start")
	}
	if st.Campaign == nil || st.Campaign.Concurrency != 3 {
		t.Fatalf("unexpected campaign: %+v", st.Campaign)
	}
}

func TestProviderWebhook(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	lead, err := e.leadRepo.Create(ctx, leads.NewLead{Phone: "+15550001111"})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if _, err := e.callRepo.Create(ctx, calls.NewCall{LeadID: lead.ID, ProviderCallID: "bl-9"}); err != nil {
		t.Fatalf("create call: %v", err)
	}

	w := e.do(t, http.MethodPost, "/api/webhook", "application/json",
		[]byte(`{"call_id":"bl-9","status":"completed","transcript":"I am interested","duration":30}`))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/webhook", "application/json",
		[]byte(`{"call_id":"nope","status":"completed"}`))
	if w.Code != 404 {
		t.Fatalf("expected 404 for unknown call, got %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/webhook", "application/json",
		[]byte(`{"status":"completed"}`))
	if w.Code != 400 {
		t.Fatalf("expected 400 for missing call_id, got %d", w.Code)
	}
}

func TestPromptRoundTrip(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPut, "/api/prompts/friendly", "application/json",
		[]byte(`{"text":"Hi ${contact} from ${company}!"}`))
	if w.Code != 200 {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/prompts/friendly", "", nil)
	if w.Code != 200 {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Hi ${contact}") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/prompts/missing", "", nil)
	if w.Code != 404 {
		t.Fatalf("expected 404 for unknown prompt, got %d", w.Code)
	}

	// The default prompt always resolves, even when nothing is stored.
	w = e.do(t, http.MethodGet, "/api/prompts/default", "", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 for builtin default, got %d", w.Code)
	}
}

func TestListCallsEnrichesWithLead(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	lead, err := e.leadRepo.Create(ctx, leads.NewLead{Phone: "+15550001111", Company: "Acme", Contact: "Dana"})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if _, err := e.callRepo.Create(ctx, calls.NewCall{LeadID: lead.ID, ProviderCallID: "bl-1"}); err != nil {
		t.Fatalf("create call: %v", err)
	}

	w := e.do(t, http.MethodGet, "/api/calls", "", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var views []callView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("%d calls, want 1", len(views))
	}
	if views[0].Phone != "+15550001111" || views[0].Company != "Acme" {
		t.Fatalf("lead fields missing: %+v", views[0])
	}
}

func TestListCallsStatusFilter(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	outcomes := []calls.Outcome{calls.OutcomeInterested, calls.OutcomeVoicemail, calls.OutcomeInterested}
	for i, o := range outcomes {
		lead, err := e.leadRepo.Create(ctx, leads.NewLead{Phone: fmt.Sprintf("+1555000%04d", i)})
		if err != nil {
			t.Fatalf("create lead: %v", err)
		}
		call, err := e.callRepo.Create(ctx, calls.NewCall{LeadID: lead.ID})
		if err != nil {
			t.Fatalf("create call: %v", err)
		}
		if err := e.callRepo.SetResult(ctx, call.ID, calls.Result{Outcome: o}); err != nil {
			t.Fatalf("set result: %v", err)
		}
	}

	cases := []struct {
		query string
		want  int
	}{
		{"?status=interested", 2},
		{"?status=voicemail", 1},
		{"?status=all", 3},
		{"", 3},
		{"?outcome=interested", 2},
	}
	for _, tc := range cases {
		w := e.do(t, http.MethodGet, "/api/calls"+tc.query, "", nil)
		if w.Code != 200 {
			t.Fatalf("%q: expected 200, got %d", tc.query, w.Code)
		}
		var views []callView
		if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
			t.Fatalf("%q: decode: %v", tc.query, err)
		}
		if len(views) != tc.want {
			t.Fatalf("%q: %d calls, want %d", tc.query, len(views), tc.want)
		}
	}
}
