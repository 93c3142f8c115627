package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/models"
	"github.com/fatflowers/playgate/internal/platform/identity"
)

func checkPremiumRequest(target string, withAuth bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if withAuth {
		req.Header.Set("Authorization", "Bearer some-id-token")
	}
	return req
}

func premiumRouter(verifier *stubVerifier, store *stubManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/check_premium", ApiCheckPremium(verifier, store, zap.NewNop().Sugar()))
	return r
}

func TestApiCheckPremium_MissingToken(t *testing.T) {
	r := premiumRouter(&stubVerifier{userID: "user-1"}, &stubManager{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium", true))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"premium":false`)
}

func TestApiCheckPremium_MissingAuthHeader(t *testing.T) {
	verifier := &stubVerifier{userID: "user-1"}
	r := premiumRouter(verifier, &stubManager{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium?token=tok-1", false))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"premium":false`)
	assert.Zero(t, verifier.calls, "verifier must not run without a bearer header")
}

func TestApiCheckPremium_MalformedAuthHeader(t *testing.T) {
	r := premiumRouter(&stubVerifier{userID: "user-1"}, &stubManager{})

	req := checkPremiumRequest("/check_premium?token=tok-1", false)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApiCheckPremium_RejectedToken(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("%w: signature failure", identity.ErrInvalidToken)}
	r := premiumRouter(verifier, &stubManager{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium?token=tok-1", true))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"premium":false`)
}

func TestApiCheckPremium_Entitled(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour)
	store := &stubManager{entitled: &models.SubscriptionRecord{
		PurchaseToken:    "tok-1",
		UserID:           lo.ToPtr("user-1"),
		IsActive:         true,
		ExpiryTimeMillis: expiry.UnixMilli(),
	}}
	r := premiumRouter(&stubVerifier{userID: "user-1"}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium?token=tok-1", true))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Premium    bool   `json:"premium"`
		ExpiryTime string `json:"expiryTime"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Premium)
	parsed, err := time.Parse(time.RFC3339, resp.ExpiryTime)
	require.NoError(t, err)
	assert.WithinDuration(t, expiry, parsed, time.Second)
}

func TestApiCheckPremium_NotEntitled(t *testing.T) {
	r := premiumRouter(&stubVerifier{userID: "user-1"}, &stubManager{entitled: nil})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium?token=tok-1", true))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"premium":false`)
	assert.NotContains(t, w.Body.String(), "expiryTime")
}

func TestApiCheckPremium_StoreErrorIsMasked(t *testing.T) {
	r := premiumRouter(&stubVerifier{userID: "user-1"}, &stubManager{findErr: fmt.Errorf("pq: connection refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, checkPremiumRequest("/check_premium?token=tok-1", true))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"premium":false`)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
