package ecommerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

// AliExpressConfig holds configuration for the AliExpress affiliate API
type AliExpressConfig struct {
	// AppKey is the application key from the AliExpress open platform
	AppKey string
	// AppSecret signs every request
	AppSecret string
	// TrackingID attributes generated links and searches to the affiliate account
	TrackingID string
	// APIBaseURL is the RPC endpoint
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// ShipToCountry is the default destination for searches
	ShipToCountry string
	// TargetCurrency and TargetLanguage localize search results
	TargetCurrency string
	TargetLanguage string
	// MinRequestInterval is the minimum spacing between two outbound calls
	MinRequestInterval time.Duration
}

const (
	// AliExpressAPIURL is the production RPC endpoint
	AliExpressAPIURL = "https://api-sg.aliexpress.com/sync"

	aliexpressSignMethod = "hmac-sha256"
	aliexpressTimeLayout = "2006-01-02 15:04:05"
	defaultShipTo        = "IL"
	defaultMinInterval   = 2 * time.Second
)

// Errors for AliExpress configuration
var (
	ErrAliExpressConfigMissingAppKey    = errors.New("aliexpress: app key is required")
	ErrAliExpressConfigMissingAppSecret = errors.New("aliexpress: app secret is required")
)

// NewAliExpressConfig creates a configuration with defaults
func NewAliExpressConfig(appKey, appSecret, trackingID string) *AliExpressConfig {
	return &AliExpressConfig{
		AppKey:             appKey,
		AppSecret:          appSecret,
		TrackingID:         trackingID,
		APIBaseURL:         AliExpressAPIURL,
		TimeoutSeconds:     30,
		ShipToCountry:      defaultShipTo,
		TargetCurrency:     "USD",
		TargetLanguage:     "EN",
		MinRequestInterval: defaultMinInterval,
	}
}

// Validate validates the configuration and fills empty optional fields
func (c *AliExpressConfig) Validate() error {
	if c.AppKey == "" {
		return ErrAliExpressConfigMissingAppKey
	}
	if c.AppSecret == "" {
		return ErrAliExpressConfigMissingAppSecret
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = AliExpressAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.ShipToCountry == "" {
		c.ShipToCountry = defaultShipTo
	}
	if c.TargetCurrency == "" {
		c.TargetCurrency = "USD"
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = "EN"
	}
	if c.MinRequestInterval <= 0 {
		c.MinRequestInterval = defaultMinInterval
	}
	return nil
}

// Sign computes the request signature with the configured secret
func (c *AliExpressConfig) Sign(params map[string]string) string {
	return SignHMAC(c.AppSecret, params)
}

// SignHMAC computes the uppercase hex HMAC-SHA256 over key+value pairs sorted
// by key. The sign parameter itself is excluded.
func SignHMAC(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString(params[k])
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(builder.String()))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// chinaStandardTime is GMT+8, the zone the API expects timestamps in
var chinaStandardTime = time.FixedZone("GMT+8", 8*60*60)

func formatTimestamp(t time.Time) string {
	return t.In(chinaStandardTime).Format(aliexpressTimeLayout)
}
