package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHistory_RequiresToken(t *testing.T) {
	d := newDashboard(t)

	status, body := d.do(t, http.MethodGet, "/api/chat-history/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	status, _ = d.do(t, http.MethodGet, "/api/chat-history/conversations", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChatHistory_ListsOnlyOwnConversations(t *testing.T) {
	d := newDashboard(t)
	d.seed(t, "user_123", "33612345678")
	d.seed(t, "user_456", "33600000000")

	status, body := d.do(t, http.MethodGet, "/api/chat-history/conversations", tokenFor(t, "user_123"), nil)
	require.Equal(t, http.StatusOK, status)

	list, ok := body.Results.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "33612345678", list[0].(map[string]any)["contact_number"])
}

func TestChatHistory_ForeignConversationIsNotFound(t *testing.T) {
	d := newDashboard(t)
	conv := d.seed(t, "user_456", "33600000000")

	status, body := d.do(t, http.MethodGet, "/api/chat-history/conversations/"+conv.ID+"/messages", tokenFor(t, "user_123"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", body.Code)

	status, _ = d.do(t, http.MethodGet, "/api/chat-history/conversations/"+conv.ID+"/messages", tokenFor(t, "user_456"), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestChatHistory_StatusAndMarkRead(t *testing.T) {
	d := newDashboard(t)
	conv := d.seed(t, "user_123", "33612345678")
	token := tokenFor(t, "user_123")

	status, body := d.do(t, http.MethodPut, "/api/chat-history/conversations/"+conv.ID+"/status", token, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	status, _ = d.do(t, http.MethodPut, "/api/chat-history/conversations/"+conv.ID+"/status", token, map[string]string{"status": "closed"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = d.do(t, http.MethodPut, "/api/chat-history/conversations/"+conv.ID+"/mark-read", token, nil)
	assert.Equal(t, http.StatusOK, status)

	_, body = d.do(t, http.MethodGet, "/api/chat-history/conversations?status=closed", token, nil)
	list := body.Results.([]any)
	require.Len(t, list, 1)
	assert.EqualValues(t, 0, list[0].(map[string]any)["unread_messages"])
}

func TestUserStats(t *testing.T) {
	d := newDashboard(t)
	d.seed(t, "user_123", "33612345678")

	status, body := d.do(t, http.MethodGet, "/api/user-stats", tokenFor(t, "user_123"), nil)
	require.Equal(t, http.StatusOK, status)
	stats := body.Results.(map[string]any)
	assert.EqualValues(t, 1, stats["messagesProcessed"])
	assert.EqualValues(t, 100, stats["totalQuota"])
	assert.EqualValues(t, 1, stats["quotaUsed"])
}

func TestProfile_EmailComesFromToken(t *testing.T) {
	d := newDashboard(t)
	token := tokenFor(t, "user_123")

	status, body := d.do(t, http.MethodPut, "/api/profile", token, map[string]any{"first_name": "Awa", "age": 30})
	require.Equal(t, http.StatusOK, status, body.Message)

	_, body = d.do(t, http.MethodGet, "/api/profile", token, nil)
	profile := body.Results.(map[string]any)
	assert.Equal(t, "user_123@example.com", profile["email"])
	assert.Equal(t, "Awa", profile["first_name"])
	assert.Equal(t, "user", profile["role"])
}

func TestAdmin_RequiresAdminRole(t *testing.T) {
	d := newDashboard(t)

	status, body := d.do(t, http.MethodGet, "/api/admin/users", tokenFor(t, "user_123"), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Code)

	d.promote(t, "root")
	status, body = d.do(t, http.MethodGet, "/api/admin/users", tokenFor(t, "root"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Results.([]any), 1)

	status, _ = d.do(t, http.MethodGet, "/api/admin/logs?limit=5", tokenFor(t, "root"), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealth_IsPublic(t *testing.T) {
	d := newDashboard(t)
	status, body := d.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test", body.Results.(map[string]any)["version"])
}
