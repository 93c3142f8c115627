package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/awa/go-iap/playstore"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/api/androidpublisher/v3"
	"gorm.io/datatypes"

	"github.com/fatflowers/playgate/internal/app/service/notifylog"
	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/internal/models"
	"github.com/fatflowers/playgate/internal/platform/googleplay"
	"github.com/fatflowers/playgate/pkg/logctx"
)

// Outcome classifies one notification attempt. Every outcome is acknowledged
// to the delivery system; the distinction only drives logging and the audit
// trail. Re-notification is the sole retry path, so a failed attempt must not
// trigger redelivery of the same message.
type Outcome string

const (
	// OutcomeReconciled means authoritative state was fetched and upserted.
	OutcomeReconciled Outcome = "reconciled"
	// OutcomeSkipped means the payload was undecodable or not a subscription
	// notification; acknowledged without action.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the provider or the store failed for this attempt;
	// acknowledged anyway.
	OutcomeFailed Outcome = "failed"
)

// BillingClient is the provider surface the reconciliation needs.
type BillingClient interface {
	FetchSubscription(ctx context.Context, subscriptionID, purchaseToken string) (*androidpublisher.SubscriptionPurchase, error)
}

type Handler struct {
	store   subscription.Manager
	billing BillingClient
	audit   *notifylog.Service
	Logger  *zap.SugaredLogger

	now func() time.Time
}

func NewHandler(store subscription.Manager, billing *googleplay.Client, audit *notifylog.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{store: store, billing: billing, audit: audit, Logger: log, now: time.Now}
}

// HandleNotification runs the full reconciliation for one push delivery:
// decode, classify, extract, fetch authoritative state, upsert. Reprocessing
// the same notification converges to the same record state, so the caller can
// acknowledge unconditionally.
func (h *Handler) HandleNotification(ctx context.Context, msg *PushMessage) Outcome {
	log := logctx.FromCtx(ctx, h.Logger)
	traceID, _ := ctx.Value("traceID").(string)

	notif, raw, err := decodeEnvelope(msg.Message.Data)
	if err != nil {
		log.Warnw("webhook_payload_unusable", "err", err.Error(), "message_id", msg.Message.MessageID)
		h.saveAudit(ctx, msg, traceID, nil, "", "", models.PlayNotificationLogStatusSkipped, err)
		return OutcomeSkipped
	}

	purchaseToken, subscriptionID, err := extractSubscription(notif)
	if err != nil {
		log.Infow("webhook_notification_ignored", "reason", err.Error(), "message_id", msg.Message.MessageID)
		h.saveAudit(ctx, msg, traceID, raw, "", "", models.PlayNotificationLogStatusSkipped, err)
		return OutcomeSkipped
	}

	sub, err := h.billing.FetchSubscription(ctx, subscriptionID, purchaseToken)
	if err != nil {
		// Terminal for this attempt. The provider will re-notify on the next
		// state change; redelivery of this exact message buys nothing.
		log.Errorw("webhook_fetch_failed",
			"err", err.Error(),
			"subscription_id", subscriptionID,
			"notification_type", notif.SubscriptionNotification.NotificationType,
		)
		h.saveAudit(ctx, msg, traceID, raw, purchaseToken, subscriptionID, models.PlayNotificationLogStatusHandleFailed, err)
		return OutcomeFailed
	}

	rec := h.buildRecord(purchaseToken, subscriptionID, sub)
	if err := h.store.ApplySnapshot(ctx, rec); err != nil {
		log.Errorw("webhook_upsert_failed", "err", err.Error(), "purchase_token", purchaseToken)
		h.saveAudit(ctx, msg, traceID, raw, purchaseToken, subscriptionID, models.PlayNotificationLogStatusHandleFailed, err)
		return OutcomeFailed
	}

	log.Infow("webhook_reconciled",
		"purchase_token", purchaseToken,
		"subscription_id", subscriptionID,
		"is_active", rec.IsActive,
		"expiry_time_millis", rec.ExpiryTimeMillis,
	)
	h.saveAudit(ctx, msg, traceID, raw, purchaseToken, subscriptionID, models.PlayNotificationLogStatusHandled, nil)
	return OutcomeReconciled
}

// buildRecord maps a provider snapshot onto the stored record shape.
// is_active is computed here, at reconciliation time; readers compare expiry
// against their own clock when strict freshness matters.
func (h *Handler) buildRecord(purchaseToken, subscriptionID string, sub *androidpublisher.SubscriptionPurchase) *models.SubscriptionRecord {
	now := h.now()
	rec := &models.SubscriptionRecord{
		PurchaseToken:     purchaseToken,
		SubscriptionID:    subscriptionID,
		ExpiryTimeMillis:  sub.ExpiryTimeMillis,
		IsActive:          sub.ExpiryTimeMillis > now.UnixMilli(),
		AutoRenewing:      lo.ToPtr(sub.AutoRenewing),
		PaymentState:      sub.PaymentState,
		Kind:              sub.Kind,
		OrderID:           sub.OrderId,
		CountryCode:       sub.CountryCode,
		PriceCurrencyCode: sub.PriceCurrencyCode,
	}
	if sub.PriceAmountMicros != 0 {
		rec.PriceAmountMicros = lo.ToPtr(sub.PriceAmountMicros)
	}
	if raw, err := json.Marshal(sub); err == nil {
		rec.Snapshot = datatypes.JSON(raw)
	}
	return rec
}

func (h *Handler) saveAudit(ctx context.Context, msg *PushMessage, traceID string, raw []byte, purchaseToken, subscriptionID string, status models.PlayNotificationLogStatus, cause error) {
	if h.audit == nil {
		return
	}
	row := &models.PlayNotificationLog{
		MessageID:      msg.Message.MessageID,
		TraceID:        traceID,
		PurchaseToken:  purchaseToken,
		SubscriptionID: subscriptionID,
		Status:         status,
	}
	if raw != nil {
		row.Data = datatypes.JSON(raw)
		var notif playstore.DeveloperNotification
		if err := json.Unmarshal(raw, &notif); err == nil {
			row.NotificationType = int64(notif.SubscriptionNotification.NotificationType)
		}
	}
	if cause != nil {
		resBytes, _ := json.Marshal(map[string]any{"error": cause.Error()})
		res := datatypes.JSON(resBytes)
		row.Result = &res
	}
	h.audit.Save(ctx, row)
}
