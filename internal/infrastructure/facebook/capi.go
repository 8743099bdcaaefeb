package facebook

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/goccy/go-json"
)

const defaultGraphURL = "https://graph.facebook.com"

// HashSHA256 returns a hex-encoded SHA256 hash of the normalized input string.
func HashSHA256(input string) string {
	if input == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// CAPIClient sends server-side conversion events to the Facebook Conversions API.
// A nil client is valid and sends nothing.
type CAPIClient struct {
	pixelID     string
	accessToken string
	apiVersion  string
	currency    string
	baseURL     string
	httpClient  *http.Client
	retryDelay  time.Duration
}

// NewCAPIClient returns nil when the pixel is not configured.
func NewCAPIClient(pixelID, accessToken, apiVersion, currency string) *CAPIClient {
	if pixelID == "" || accessToken == "" {
		logger.Info().Msg("Facebook Pixel ID or Access Token not configured, CAPI disabled")
		return nil
	}
	return &CAPIClient{
		pixelID:     pixelID,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		currency:    currency,
		baseURL:     defaultGraphURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryDelay: time.Second,
	}
}

// UserData represents the user information for event matching
type UserData struct {
	Phone      string `json:"ph,omitempty"`          // SHA256 hashed phone
	FirstName  string `json:"fn,omitempty"`          // SHA256 hashed first name
	LastName   string `json:"ln,omitempty"`          // SHA256 hashed last name
	City       string `json:"ct,omitempty"`          // SHA256 hashed city
	Zip        string `json:"zp,omitempty"`          // SHA256 hashed zip/postal code
	Country    string `json:"country,omitempty"`     // SHA256 hashed country
	ExternalID string `json:"external_id,omitempty"` // SHA256 hashed customer id
}

// CustomData represents purchase-specific data
type CustomData struct {
	Currency   string        `json:"currency,omitempty"`
	Value      float64       `json:"value,omitempty"`
	ContentIDs []string      `json:"content_ids,omitempty"`
	Contents   []ContentItem `json:"contents,omitempty"`
	NumItems   int           `json:"num_items,omitempty"`
	OrderID    string        `json:"order_id,omitempty"`
}

type ContentItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"item_price,omitempty"`
}

type Event struct {
	EventName    string     `json:"event_name"`
	EventTime    int64      `json:"event_time"`
	ActionSource string     `json:"action_source"`
	UserData     UserData   `json:"user_data"`
	CustomData   CustomData `json:"custom_data,omitempty"`
	EventID      string     `json:"event_id,omitempty"` // deduplicates with browser events
}

type EventPayload struct {
	Data []Event `json:"data"`
}

// SendEvent posts one event, retrying transport errors, 429s and 5xx up to three times.
func (c *CAPIClient) SendEvent(ctx context.Context, event Event) error {
	if c == nil {
		return nil
	}

	jsonData, err := json.Marshal(EventPayload{Data: []Event{event}})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/events?access_token=%s", c.baseURL, c.apiVersion, c.pixelID, c.accessToken)

	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * c.retryDelay):
			}
		}

		retry, err := c.post(ctx, url, jsonData)
		if err == nil {
			logger.WithContext(ctx).Debug().Str("event", event.EventName).Msg("CAPI event sent")
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return lastErr
}

func (c *CAPIClient) post(ctx context.Context, url string, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("CAPI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return false, nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	err = fmt.Errorf("CAPI error (status %d): %s", resp.StatusCode, string(respBody))

	// 4xx other than 429 means the payload is wrong
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return false, err
	}
	return true, err
}

// PurchaseEvent builds the Purchase event for a placed order. PII is hashed here.
func (c *CAPIClient) PurchaseEvent(order *domain.Order) Event {
	items := make([]ContentItem, len(order.Items))
	ids := make([]string, len(order.Items))
	for i, item := range order.Items {
		price, _ := item.Price.Float64()
		items[i] = ContentItem{ID: item.ProductID, Quantity: item.Quantity, Price: price}
		ids[i] = item.ProductID
	}
	value, _ := order.Total.Float64()
	addr := order.ShippingAddress

	eventTime := order.CreatedAt
	if eventTime.IsZero() {
		eventTime = time.Now()
	}

	return Event{
		EventName:    "Purchase",
		EventTime:    eventTime.Unix(),
		ActionSource: "website",
		UserData: UserData{
			Phone:      HashSHA256(addr.PhoneNumber),
			FirstName:  HashSHA256(addr.FirstName),
			LastName:   HashSHA256(addr.LastName),
			City:       HashSHA256(addr.City),
			Zip:        HashSHA256(addr.ZipCode),
			Country:    HashSHA256(addr.Country),
			ExternalID: HashSHA256(order.CustomerID),
		},
		CustomData: CustomData{
			Currency:   c.currency,
			Value:      value,
			OrderID:    order.ID,
			Contents:   items,
			ContentIDs: ids,
			NumItems:   len(items),
		},
		EventID: order.ID,
	}
}

// TrackPurchase implements domain.ConversionTracker.
func (c *CAPIClient) TrackPurchase(ctx context.Context, order *domain.Order) error {
	if c == nil {
		return nil
	}
	return c.SendEvent(ctx, c.PurchaseEvent(order))
}
