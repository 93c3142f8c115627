package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/platform/identity"
)

func linkRouter(verifier *stubVerifier, store *stubManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/link_subscription", ApiLinkSubscription(verifier, store, zap.NewNop().Sugar()))
	return r
}

func linkRequest(body string, withAuth bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/link_subscription", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.Header.Set("Authorization", "Bearer some-id-token")
	}
	return req
}

func TestApiLinkSubscription_MissingPurchaseToken(t *testing.T) {
	store := &stubManager{}
	r := linkRouter(&stubVerifier{userID: "user-1"}, store)

	for _, body := range []string{`{}`, `{"purchaseToken":""}`, `not json`} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, linkRequest(body, true))
		require.Equal(t, http.StatusBadRequest, w.Code, "body=%s", body)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
	assert.Empty(t, store.links, "no store mutation on rejected input")
}

func TestApiLinkSubscription_MissingAuthHeader(t *testing.T) {
	store := &stubManager{}
	r := linkRouter(&stubVerifier{userID: "user-1"}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, linkRequest(`{"purchaseToken":"tok-1"}`, false))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Empty(t, store.links, "no store mutation without authentication")
}

func TestApiLinkSubscription_RejectedToken(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("%w: expired", identity.ErrInvalidToken)}
	store := &stubManager{}
	r := linkRouter(verifier, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, linkRequest(`{"purchaseToken":"tok-1"}`, true))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.links)
}

func TestApiLinkSubscription_LinksTokenToVerifiedUser(t *testing.T) {
	store := &stubManager{}
	r := linkRouter(&stubVerifier{userID: "user-1"}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, linkRequest(`{"purchaseToken":"tok-1"}`, true))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	require.Len(t, store.links, 1)
	assert.Equal(t, linkCall{purchaseToken: "tok-1", userID: "user-1"}, store.links[0])
}

func TestApiLinkSubscription_StoreErrorIsMasked(t *testing.T) {
	store := &stubManager{linkErr: fmt.Errorf("pq: relation does not exist")}
	r := linkRouter(&stubVerifier{userID: "user-1"}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, linkRequest(`{"purchaseToken":"tok-1"}`, true))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NotContains(t, w.Body.String(), "relation")
}
