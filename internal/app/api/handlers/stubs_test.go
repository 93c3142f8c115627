package handlers

import (
	"context"
	"time"

	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/internal/models"
)

type stubVerifier struct {
	userID string
	err    error
	calls  int
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (string, error) {
	v.calls++
	return v.userID, v.err
}

type linkCall struct {
	purchaseToken string
	userID        string
}

type stubManager struct {
	entitled *models.SubscriptionRecord
	findErr  error
	linkErr  error
	links    []linkCall
}

func (s *stubManager) ApplySnapshot(_ context.Context, _ *models.SubscriptionRecord) error {
	panic("not used")
}

func (s *stubManager) LinkUser(_ context.Context, purchaseToken, userID string) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.links = append(s.links, linkCall{purchaseToken: purchaseToken, userID: userID})
	return nil
}

func (s *stubManager) FindEntitled(_ context.Context, _, _ string, _ time.Time) (*models.SubscriptionRecord, error) {
	return s.entitled, s.findErr
}

func (s *stubManager) ScanRecords(_ context.Context, _ *subscription.ScanRecordsRequest) (*subscription.ScanRecordsResponse, error) {
	panic("not used")
}
