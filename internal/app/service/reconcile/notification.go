package reconcile

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/awa/go-iap/playstore"
)

// ErrMalformedNotification covers undecodable or unrecognized push payloads.
// These are terminal: the delivery is acknowledged without action.
var ErrMalformedNotification = errors.New("malformed notification")

// PushMessage is the push-delivery envelope POSTed by the notification
// system. Message.Data carries a base64-encoded developer notification.
type PushMessage struct {
	Message struct {
		Data        string `json:"data"`
		MessageID   string `json:"messageId"`
		PublishTime string `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// decodeEnvelope base64-decodes and JSON-parses the developer notification.
func decodeEnvelope(data string) (*playstore.DeveloperNotification, []byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// Some publishers use the URL-safe alphabet.
		raw, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedNotification, err)
		}
	}

	var notif playstore.DeveloperNotification
	if err := json.Unmarshal(raw, &notif); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedNotification, err)
	}
	return &notif, raw, nil
}

// extractSubscription pulls the identifiers the reconciliation needs. Only
// subscription notifications are recognized; test and one-time-product
// notifications report ErrMalformedNotification so the caller acks without
// action.
func extractSubscription(notif *playstore.DeveloperNotification) (purchaseToken, subscriptionID string, err error) {
	sn := notif.SubscriptionNotification
	if sn.PurchaseToken == "" && sn.SubscriptionID == "" {
		return "", "", fmt.Errorf("%w: no subscription notification in payload", ErrMalformedNotification)
	}
	if sn.PurchaseToken == "" {
		return "", "", fmt.Errorf("%w: missing purchase token", ErrMalformedNotification)
	}
	if sn.SubscriptionID == "" {
		return "", "", fmt.Errorf("%w: missing subscription id", ErrMalformedNotification)
	}
	return sn.PurchaseToken, sn.SubscriptionID, nil
}
