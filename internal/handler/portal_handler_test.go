package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

type portalResponse struct {
	Success bool         `json:"success"`
	Portal  model.ArtKey `json:"portal"`
	Error   string       `json:"error"`
}

func (e *testEnv) issueArtKey() (*model.ArtKey, string) {
	e.t.Helper()
	key, token, err := e.portal.Issue(context.Background(), e.db, 1, 1, "Our trip")
	require.NoError(e.t, err)
	return key, token
}

func (e *testEnv) updatePortal(slug, token string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	require.NoError(e.t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/portal/"+slug, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	return e.send(req)
}

func TestShowPortal(t *testing.T) {
	e := newTestEnv(t)
	key, _ := e.issueArtKey()

	w := e.do(http.MethodGet, "/api/portal/"+key.Slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp portalResponse
	decode(t, w, &resp)
	assert.Equal(t, "Our trip", resp.Portal.Title)
	assert.NotContains(t, w.Body.String(), key.OwnerTokenHash, "token hash never leaves the server")

	w = e.do(http.MethodGet, "/api/portal/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePortal(t *testing.T) {
	e := newTestEnv(t)
	key, token := e.issueArtKey()
	body := map[string]string{"title": "  Lisbon 2024 ", "content": "Photos from the week"}

	t.Run("missing token", func(t *testing.T) {
		w := e.updatePortal(key.Slug, "", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		w := e.updatePortal(key.Slug, "not-the-token", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner token", func(t *testing.T) {
		w := e.updatePortal(key.Slug, token, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp portalResponse
		decode(t, w, &resp)
		assert.Equal(t, "Lisbon 2024", resp.Portal.Title)
		assert.Equal(t, "Photos from the week", resp.Portal.Content)

		var stored model.ArtKey
		require.NoError(t, e.db.First(&stored, key.ID).Error)
		assert.Equal(t, "Lisbon 2024", stored.Title)
	})

	t.Run("expired token", func(t *testing.T) {
		e.portal.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { e.portal.Now = nil }()

		w := e.updatePortal(key.Slug, token, body)
		assert.Equal(t, http.StatusGone, w.Code)
	})

	t.Run("unknown portal", func(t *testing.T) {
		w := e.updatePortal("unknown", token, body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGuestbook(t *testing.T) {
	e := newTestEnv(t)
	key, _ := e.issueArtKey()
	other, _ := e.issueArtKey()

	w := e.do(http.MethodPost, "/api/portal/"+key.Slug+"/guestbook", map[string]any{
		"authorName": "Tia Luz",
		"message":    "Que lindo!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Entry model.GuestbookEntry `json:"entry"`
	}
	decode(t, w, &created)
	require.NotZero(t, created.Entry.ID)

	w = e.do(http.MethodPost, "/api/portal/"+key.Slug+"/guestbook", map[string]any{
		"authorName": "Rita",
		"message":    "Obrigada!",
		"parentId":   created.Entry.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/api/portal/"+key.Slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp portalResponse
	decode(t, w, &resp)
	require.Len(t, resp.Portal.Entries, 1, "replies are nested under their parent")
	require.Len(t, resp.Portal.Entries[0].Replies, 1)
	assert.Equal(t, "Rita", resp.Portal.Entries[0].Replies[0].AuthorName)

	t.Run("empty message", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/portal/"+key.Slug+"/guestbook", map[string]any{"authorName": "X", "message": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reply to a reply", func(t *testing.T) {
		reply := resp.Portal.Entries[0].Replies[0]
		w := e.do(http.MethodPost, "/api/portal/"+key.Slug+"/guestbook", map[string]any{
			"authorName": "Zé",
			"message":    "E eu!",
			"parentId":   reply.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var stored int64
		e.db.Model(&model.GuestbookEntry{}).Where("art_key_id = ?", key.ID).Count(&stored)
		assert.EqualValues(t, 2, stored, "every stored entry is visible in the portal")
	})

	t.Run("reply across portals", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/portal/"+other.Slug+"/guestbook", map[string]any{
			"authorName": "X",
			"message":    "hi",
			"parentId":   created.Entry.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown portal", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/portal/unknown/guestbook", map[string]any{"authorName": "X", "message": "hi"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPortalQRCode(t *testing.T) {
	e := newTestEnv(t)
	key, _ := e.issueArtKey()

	w := e.do(http.MethodGet, "/api/portal/"+key.Slug+"/qr.png?size=128", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	w = e.do(http.MethodGet, "/api/portal/unknown/qr.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
