package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// API method names
const (
	MethodProductQuery      = "aliexpress.affiliate.product.query"
	MethodProductDetail     = "aliexpress.affiliate.productdetail.get"
	MethodLinkGenerate      = "aliexpress.affiliate.link.generate"
	MethodFeaturedPromo     = "aliexpress.affiliate.featuredpromo.get"
	MethodPromotionProducts = "aliexpress.affiliate.featuredpromo.products.get"
)

// APIError is a failed API call. StatusCode is set for HTTP failures and
// ErrorCode for error_response envelopes.
type APIError struct {
	Message    string
	StatusCode int
	ErrorCode  string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsRateLimited reports whether the marketplace answered HTTP 429
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Unwrap maps the error onto the integration sentinels
func (e *APIError) Unwrap() error {
	if e.IsRateLimited() {
		return integration.ErrPlatformRateLimited
	}
	return integration.ErrPlatformRequestFailed
}

// RetryPolicy controls how a logical call is retried
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	RateLimitDelay time.Duration
}

// DefaultRetryPolicy is 3 attempts, 1s exponential base and 2s linear rate-limit backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		RateLimitDelay: 2 * time.Second,
	}
}

// RequestObserver receives one observation per HTTP attempt
type RequestObserver interface {
	ObserveAPIRequest(method, outcome string, duration time.Duration)
}

// AliExpressClient is a signed, throttled and retried client for the
// AliExpress affiliate API. It implements integration.Marketplace.
type AliExpressClient struct {
	config     *AliExpressConfig
	httpClient *http.Client
	throttle   *Throttle
	retry      RetryPolicy
	logger     *zap.Logger
	observer   RequestObserver
	tracer     trace.Tracer
	now        func() time.Time
}

// ClientOption configures an AliExpressClient
type ClientOption func(*AliExpressClient)

// WithThrottle shares a throttle between clients
func WithThrottle(t *Throttle) ClientOption {
	return func(c *AliExpressClient) { c.throttle = t }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *AliExpressClient) { c.httpClient = h }
}

// WithRetryPolicy replaces the retry policy
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *AliExpressClient) { c.retry = p }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *AliExpressClient) { c.logger = l }
}

// WithRequestObserver records request metrics
func WithRequestObserver(o RequestObserver) ClientOption {
	return func(c *AliExpressClient) { c.observer = o }
}

// WithTracer sets the tracer used for call spans
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *AliExpressClient) { c.tracer = t }
}

// NewAliExpressClient creates a client. Without WithThrottle the client owns a
// throttle spaced by config.MinRequestInterval.
func NewAliExpressClient(config *AliExpressConfig, opts ...ClientOption) (*AliExpressClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &AliExpressClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		retry:  DefaultRetryPolicy(),
		logger: zap.NewNop(),
		tracer: otel.Tracer("github.com/Yitzhakza/electic/ecommerce"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.throttle == nil {
		c.throttle = NewThrottle(config.MinRequestInterval)
	}
	if c.retry.MaxAttempts <= 0 {
		c.retry.MaxAttempts = 1
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// SearchProducts runs a keyword search. Defaults: page 1, 20 per page, most
// ordered first, shipped to the configured country.
func (c *AliExpressClient) SearchProducts(ctx context.Context, params integration.SearchParams) ([]integration.RawProduct, error) {
	body := map[string]string{
		"keywords":        params.Keywords,
		"page_no":         strconv.Itoa(orDefault(params.PageNo, 1)),
		"page_size":       strconv.Itoa(orDefault(params.PageSize, 20)),
		"sort":            orDefaultString(params.Sort, integration.SortLastVolumeDesc),
		"ship_to_country": orDefaultString(params.ShipToCountry, c.config.ShipToCountry),
		"target_currency": c.config.TargetCurrency,
		"target_language": c.config.TargetLanguage,
		"tracking_id":     c.config.TrackingID,
	}
	if params.CategoryID != "" {
		body["category_ids"] = params.CategoryID
	}
	if params.MinPrice != nil && params.MinPrice.IsPositive() {
		body["min_sale_price"] = params.MinPrice.String()
	}
	if params.MaxPrice != nil && params.MaxPrice.IsPositive() {
		body["max_sale_price"] = params.MaxPrice.String()
	}

	result, err := c.Call(ctx, MethodProductQuery, body)
	if err != nil {
		return nil, err
	}
	return productList(result), nil
}

// GetProductDetail fetches one product. ok is false when the API returns no product.
func (c *AliExpressClient) GetProductDetail(ctx context.Context, productID string) (integration.RawProduct, bool, error) {
	body := map[string]string{
		"product_ids":     productID,
		"tracking_id":     c.config.TrackingID,
		"target_currency": c.config.TargetCurrency,
		"target_language": c.config.TargetLanguage,
		"ship_to_country": c.config.ShipToCountry,
	}

	result, err := c.Call(ctx, MethodProductDetail, body)
	if err != nil {
		return nil, false, err
	}
	products := productList(result)
	if len(products) == 0 {
		return nil, false, nil
	}
	return products[0], true, nil
}

// GenerateAffiliateLink converts a product URL into a tracked promotion link
func (c *AliExpressClient) GenerateAffiliateLink(ctx context.Context, originalURL string) (integration.AffiliateLink, bool, error) {
	body := map[string]string{
		"promotion_link_type": "0",
		"source_values":       originalURL,
		"tracking_id":         c.config.TrackingID,
	}

	result, err := c.Call(ctx, MethodLinkGenerate, body)
	if err != nil {
		return integration.AffiliateLink{}, false, err
	}
	links := listAt(result, "promotion_links", "promotion_link")
	if len(links) == 0 {
		return integration.AffiliateLink{}, false, nil
	}
	return integration.AffiliateLink{PromotionURL: stringValue(links[0]["promotion_link"])}, true, nil
}

// GetProductCoupons returns the first promo code offered for a product.
// Any failure is logged and reported as ok=false.
func (c *AliExpressClient) GetProductCoupons(ctx context.Context, productID string) (string, bool) {
	body := map[string]string{
		"product_id":  productID,
		"tracking_id": c.config.TrackingID,
	}

	result, err := c.Call(ctx, MethodFeaturedPromo, body)
	if err != nil {
		c.logger.Debug("Coupon lookup failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return "", false
	}
	promos := listAt(result, "promos", "promo")
	if len(promos) == 0 {
		return "", false
	}
	code := stringValue(promos[0]["promo_code"])
	return code, code != ""
}

// GetFeaturedPromotions lists current marketplace-wide promotions.
// Any failure yields an empty list.
func (c *AliExpressClient) GetFeaturedPromotions(ctx context.Context) []integration.FeaturedPromotion {
	body := map[string]string{
		"tracking_id": c.config.TrackingID,
	}

	promotions := []integration.FeaturedPromotion{}
	result, err := c.Call(ctx, MethodFeaturedPromo, body)
	if err != nil {
		c.logger.Warn("Featured promotions fetch failed", zap.Error(err))
		return promotions
	}
	for _, p := range listAt(result, "promos", "promo") {
		count, _ := strconv.Atoi(stringValue(p["product_num"]))
		promotions = append(promotions, integration.FeaturedPromotion{
			PromotionName: stringValue(p["promo_name"]),
			PromotionDesc: stringValue(p["promo_desc"]),
			ProductCount:  count,
		})
	}
	return promotions
}

// GetPromotionProducts lists products of a promotion, 50 per page
func (c *AliExpressClient) GetPromotionProducts(ctx context.Context, promotionName string, pageNo int) ([]integration.RawProduct, error) {
	body := map[string]string{
		"promotion_name":  promotionName,
		"tracking_id":     c.config.TrackingID,
		"page_no":         strconv.Itoa(orDefault(pageNo, 1)),
		"page_size":       "50",
		"target_currency": c.config.TargetCurrency,
		"target_language": c.config.TargetLanguage,
		"ship_to_country": c.config.ShipToCountry,
	}

	result, err := c.Call(ctx, MethodPromotionProducts, body)
	if err != nil {
		return nil, err
	}
	return productList(result), nil
}

// ---------------------------------------------------------------------------
// Request handling
// ---------------------------------------------------------------------------

// Call performs one logical API call: it waits for the throttle once, then
// tries up to RetryPolicy.MaxAttempts times. HTTP 429 backs off linearly
// (RateLimitDelay x attempt), every other failure exponentially
// (BaseDelay x 2^attempt). It returns resp_result.result of the method's
// response envelope.
func (c *AliExpressClient) Call(ctx context.Context, method string, params map[string]string) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "aliexpress."+method, trace.WithAttributes(
		attribute.String("aliexpress.method", method),
	))
	defer span.End()

	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		envelope, err := c.doRequest(ctx, method, params)
		if err == nil {
			span.SetAttributes(attribute.Int("aliexpress.attempts", attempt+1))
			return resultOf(method, envelope), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			c.logger.Warn("AliExpress rate limited",
				zap.String("method", method),
				zap.Int("attempt", attempt+1),
			)
			if sleepErr := sleepContext(ctx, c.retry.RateLimitDelay*time.Duration(attempt+1)); sleepErr != nil {
				break
			}
			continue
		}

		if attempt < c.retry.MaxAttempts-1 {
			delay := time.Duration(float64(c.retry.BaseDelay) * math.Pow(2, float64(attempt)))
			c.logger.Debug("Retrying AliExpress call",
				zap.String("method", method),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
				break
			}
		}
	}

	if lastErr == nil {
		lastErr = &APIError{Message: "All retry attempts failed"}
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return nil, lastErr
}

// doRequest sends one signed POST and decodes the JSON envelope
func (c *AliExpressClient) doRequest(ctx context.Context, method string, params map[string]string) (map[string]any, error) {
	all := map[string]string{
		"method":      method,
		"app_key":     c.config.AppKey,
		"sign_method": aliexpressSignMethod,
		"timestamp":   formatTimestamp(c.now()),
		"format":      "json",
		"v":           "2.0",
	}
	for k, v := range params {
		all[k] = v
	}
	all["sign"] = c.config.Sign(all)

	values := url.Values{}
	for k, v := range all {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("aliexpress: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "network_error", start)
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()
	c.throttle.MarkResponse()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.observe(method, "read_error", start)
		return nil, fmt.Errorf("aliexpress: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(method, "http_"+strconv.Itoa(resp.StatusCode), start)
		return nil, &APIError{
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode: resp.StatusCode,
		}
	}

	var envelope map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		c.observe(method, "invalid_response", start)
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	if errResp, ok := envelope["error_response"].(map[string]any); ok {
		c.observe(method, "api_error", start)
		return nil, newEnvelopeError(errResp)
	}

	c.observe(method, "success", start)
	return envelope, nil
}

func (c *AliExpressClient) observe(method, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveAPIRequest(method, outcome, time.Since(start))
	}
}

func newEnvelopeError(errResp map[string]any) *APIError {
	message := "Unknown API error"
	if msg, ok := errResp["msg"]; ok && msg != nil {
		message = stringValue(msg)
	} else if sub, ok := errResp["sub_msg"]; ok && sub != nil {
		message = stringValue(sub)
	}
	return &APIError{
		Message:   message,
		ErrorCode: stringValue(errResp["code"]),
	}
}

// resultOf unwraps <method_with_underscores>_response.resp_result.result
func resultOf(method string, envelope map[string]any) map[string]any {
	key := strings.ReplaceAll(method, ".", "_") + "_response"
	resp, _ := envelope[key].(map[string]any)
	respResult, _ := resp["resp_result"].(map[string]any)
	result, _ := respResult["result"].(map[string]any)
	if result == nil {
		return map[string]any{}
	}
	return result
}

// productList reads result.products.product, or result.products when the
// array is not wrapped
func productList(result map[string]any) []integration.RawProduct {
	items := listAt(result, "products", "product")
	out := make([]integration.RawProduct, 0, len(items))
	for _, item := range items {
		out = append(out, integration.RawProduct(item))
	}
	return out
}

// listAt returns the objects at result[outer][inner], falling back to result[outer]
func listAt(result map[string]any, outer, inner string) []map[string]any {
	v := result[outer]
	if m, ok := v.(map[string]any); ok {
		if wrapped, ok := m[inner]; ok && wrapped != nil {
			v = wrapped
		}
	}
	arr, _ := v.([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ integration.Marketplace = (*AliExpressClient)(nil)
