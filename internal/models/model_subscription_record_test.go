package models

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRecord_EntitledBy(t *testing.T) {
	now := time.Unix(1700000000, 0)
	future := now.Add(time.Hour).UnixMilli()
	past := now.Add(-time.Hour).UnixMilli()

	tests := []struct {
		name string
		rec  *SubscriptionRecord
		want bool
	}{
		{name: "nil record", rec: nil, want: false},
		{
			name: "all conditions hold",
			rec:  &SubscriptionRecord{UserID: lo.ToPtr("user-1"), IsActive: true, ExpiryTimeMillis: future},
			want: true,
		},
		{
			name: "unclaimed record",
			rec:  &SubscriptionRecord{IsActive: true, ExpiryTimeMillis: future},
			want: false,
		},
		{
			name: "owned by someone else",
			rec:  &SubscriptionRecord{UserID: lo.ToPtr("user-2"), IsActive: true, ExpiryTimeMillis: future},
			want: false,
		},
		{
			// The cached flag is authoritative even when the expiry would
			// pass: a stale inactive snapshot denies entitlement.
			name: "inactive snapshot with future expiry",
			rec:  &SubscriptionRecord{UserID: lo.ToPtr("user-1"), IsActive: false, ExpiryTimeMillis: future},
			want: false,
		},
		{
			// And the reverse: a stale active snapshot does not outlive its
			// expiry.
			name: "active snapshot with past expiry",
			rec:  &SubscriptionRecord{UserID: lo.ToPtr("user-1"), IsActive: true, ExpiryTimeMillis: past},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.EntitledBy("user-1", now))
		})
	}
}

func TestSubscriptionRecord_ExpiryTime(t *testing.T) {
	assert.True(t, (&SubscriptionRecord{}).ExpiryTime().IsZero())

	var nilRec *SubscriptionRecord
	assert.True(t, nilRec.ExpiryTime().IsZero())

	at := time.Unix(1700000000, 0)
	rec := &SubscriptionRecord{ExpiryTimeMillis: at.UnixMilli()}
	assert.Equal(t, at.UnixMilli(), rec.ExpiryTime().UnixMilli())
}
