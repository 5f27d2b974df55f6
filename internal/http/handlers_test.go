package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodhelp-bot/pkg"
)

type echoEngine struct {
	last pkg.InboundMessage
}

func (e *echoEngine) HandleMessage(_ context.Context, msg pkg.InboundMessage) string {
	e.last = msg
	return "reply to " + msg.Body
}

func postWebhook(t *testing.T, srv http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRendersTwiML(t *testing.T) {
	engine := &echoEngine{}
	srv := NewServer(engine, nil)

	rec := postWebhook(t, srv, url.Values{
		"Body":        {"hi"},
		"From":        {"whatsapp:+919876543210"},
		"ProfileName": {"Ravi"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Response><Message>reply to hi</Message></Response>")
	assert.Equal(t, "whatsapp:+919876543210", engine.last.ConversantID)
	assert.Equal(t, "Ravi", engine.last.DisplayName)
}

func TestWebhookDefaultsDisplayName(t *testing.T) {
	engine := &echoEngine{}
	srv := NewServer(engine, nil)

	rec := postWebhook(t, srv, url.Values{
		"Body": {"hello"},
		"From": {"whatsapp:+911111111111"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Friend", engine.last.DisplayName)
}

func TestWebhookRejectsMissingFrom(t *testing.T) {
	srv := NewServer(&echoEngine{}, nil)

	rec := postWebhook(t, srv, url.Values{"Body": {"hi"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := NewServer(&echoEngine{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
