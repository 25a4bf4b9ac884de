package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/classifier"
	"github.com/Yitzhakza/electic/internal/domain/integration"
	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/infrastructure/telemetry"
)

// SyncLockKey is the lock key held for the duration of a catalog sync
const SyncLockKey = "catalog-sync"

// RunOptions are the inputs of one sync run
type RunOptions struct {
	TriggeredBy syncrun.Trigger
	// QueryIDs narrows the run to these enabled queries. Empty means all enabled queries.
	QueryIDs []uuid.UUID
}

// EngineConfig holds sync tuning
type EngineConfig struct {
	ShipToCountry string
	PageSize      int
	LockTTL       time.Duration
	// DeactivateMissingAfter deactivates products not refreshed for this long
	// after a successful run. Zero disables the sweep.
	DeactivateMissingAfter time.Duration
}

// DefaultEngineConfig returns the settings the storefront runs with
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ShipToCountry: "IL",
		PageSize:      20,
		LockTTL:       30 * time.Minute,
	}
}

// Repositories bundles the stores the engine writes to
type Repositories struct {
	Queries  catalog.SearchQueryRepository
	Products catalog.ProductRepository
	Runs     syncrun.Repository
	Logs     syncrun.LogRepository
}

// Engine runs catalog syncs.
type Engine struct {
	marketplace integration.Marketplace
	normalizer  integration.Normalizer
	classifier  *classifier.Classifier
	reference   catalog.ReferenceSource
	repos       Repositories
	cfg         EngineConfig

	locker   shared.Locker
	metrics  Recorder
	progress ProgressObserver
	logger   *zap.Logger
	now      func() time.Time
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLocker enforces a single active sync through locker
func WithLocker(l shared.Locker) EngineOption {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithRecorder sets the business metrics recorder
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithProgressObserver sets the in-flight observer
func WithProgressObserver(p ProgressObserver) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.progress = p
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a sync engine
func NewEngine(
	marketplace integration.Marketplace,
	normalizer integration.Normalizer,
	cls *classifier.Classifier,
	reference catalog.ReferenceSource,
	repos Repositories,
	cfg EngineConfig,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		marketplace: marketplace,
		normalizer:  normalizer,
		classifier:  cls,
		reference:   reference,
		repos:       repos,
		cfg:         cfg,
		metrics:     nopRecorder{},
		progress:    nopProgress{},
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunSync executes one sync and returns the run id.
//
// An error is returned only when the run never started: the lock is held
// elsewhere (syncrun.ErrSyncInProgress), the trigger is invalid, or the run
// row could not be created. Every later failure is recorded on the run.
func (e *Engine) RunSync(ctx context.Context, opts RunOptions) (uuid.UUID, error) {
	run, err := syncrun.NewSyncRun(opts.TriggeredBy, e.now())
	if err != nil {
		return uuid.Nil, err
	}

	if e.locker != nil {
		token, ok, err := e.locker.TryAcquire(ctx, SyncLockKey, e.cfg.LockTTL)
		if err != nil {
			return uuid.Nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			return uuid.Nil, syncrun.ErrSyncInProgress
		}
		defer func() {
			if err := e.locker.Release(context.WithoutCancel(ctx), SyncLockKey, token); err != nil {
				e.logger.Warn("Failed to release sync lock", zap.Error(err))
			}
		}()
	}

	if err := e.repos.Runs.Create(ctx, run); err != nil {
		return uuid.Nil, fmt.Errorf("create sync run: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "sync.run",
		telemetry.SyncRunID(run.ID),
		telemetry.TriggeredBy(string(run.TriggeredBy)),
	)
	ctx, _ = logger.WithSyncRunID(ctx, e.logger, run.ID.String())

	e.progress.SyncStarted()

	err = e.execute(ctx, run, opts.QueryIDs)
	if err != nil {
		e.fail(ctx, run, err)
	} else {
		e.complete(ctx, run)
	}
	telemetry.EndSpan(span, err)

	finished := e.now()
	e.metrics.RecordRun(ctx, string(run.TriggeredBy), string(run.Status), finished.Sub(run.StartedAt),
		run.NewProducts, run.UpdatedProducts, len(run.Errors))
	e.progress.SyncFinished(run.Status == syncrun.StatusSuccess, finished)

	return run.ID, nil
}

// execute runs the query loop. A returned error is fatal for the run.
func (e *Engine) execute(ctx context.Context, run *syncrun.SyncRun, queryIDs []uuid.UUID) error {
	index, err := e.reference.Index(ctx)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	queries, err := e.repos.Queries.FindEnabled(ctx, queryIDs)
	if err != nil {
		return fmt.Errorf("load search queries: %w", err)
	}
	run.SetQueryCount(len(queries))

	e.logEvent(ctx, run.ID, nil, syncrun.LevelInfo, fmt.Sprintf("Starting sync with %d queries", len(queries)), nil)

	for i := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		q := &queries[i]
		if err := e.syncQuery(ctx, run, index, q); err != nil {
			msg := fmt.Sprintf("Error for query \"%s\": %s", q.QueryText, err)
			run.AddError(msg)
			e.logEvent(ctx, run.ID, &q.ID, syncrun.LevelError, msg, nil)
		}
	}
	return nil
}

// syncQuery searches one query and upserts its results. Per-product errors are
// recorded on the run; a returned error aborts only this query.
func (e *Engine) syncQuery(ctx context.Context, run *syncrun.SyncRun, index *catalog.ReferenceIndex, q *catalog.SearchQuery) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "sync.query",
		telemetry.QueryID(q.ID),
		telemetry.QueryText(q.QueryText),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	e.logEvent(ctx, run.ID, &q.ID, syncrun.LevelInfo, fmt.Sprintf("Searching: \"%s\"", q.QueryText), nil)

	raws, err := e.marketplace.SearchProducts(ctx, integration.SearchParams{
		Keywords:      q.QueryText,
		ShipToCountry: e.cfg.ShipToCountry,
		PageSize:      e.cfg.PageSize,
	})
	if err != nil {
		return err
	}

	rejected := 0
	for _, raw := range raws {
		product, ok := e.normalizer.Normalize(raw)
		if !ok {
			rejected++
			continue
		}
		run.RecordObserved()

		created, err := e.upsertProduct(ctx, q, index, product)
		if err != nil {
			msg := fmt.Sprintf("Error processing product: %s", err)
			run.AddError(msg)
			e.logEvent(ctx, run.ID, &q.ID, syncrun.LevelError, msg, map[string]any{
				"productId": product.ProductID,
			})
			continue
		}
		if created {
			run.RecordNew()
		} else {
			run.RecordUpdated()
		}
	}
	e.metrics.RecordRejected(ctx, rejected)

	if err := e.repos.Queries.MarkSynced(ctx, q.ID, e.now()); err != nil {
		return fmt.Errorf("mark query synced: %w", err)
	}
	return nil
}

// upsertProduct enriches a normalized product and writes it by external id.
// It reports whether a new row was inserted.
func (e *Engine) upsertProduct(ctx context.Context, q *catalog.SearchQuery, index *catalog.ReferenceIndex, p *integration.NormalizedProduct) (bool, error) {
	classes := e.classifier.Classify(p.Title)

	brandID := q.BrandID
	if id, ok := index.BrandID(classes.Brand); ok {
		brandID = id
	}
	categoryID := q.CategoryID
	if id, ok := index.CategoryID(classes.Category); ok {
		categoryID = &id
	}

	affiliate := e.affiliateURL(ctx, p)
	coupon := couponFromPromo(p.PromoCode)
	if coupon.Code == nil {
		if code, ok := e.marketplace.GetProductCoupons(ctx, p.ProductID); ok {
			coupon.Code = &code
		}
	}

	snapshot := catalog.ProductSnapshot{
		AliExpressProductID: p.ProductID,
		TitleOriginal:       p.Title,
		Images:              p.Images(),
		Price:               p.SalePrice,
		Currency:            p.Currency,
		OriginalPrice:       p.OriginalPrice,
		Rating:              parseRating(p.EvaluateScore),
		TotalOrders:         p.Orders,
		ShippingInfo:        optional(p.ShippingInfo),
		OriginalURL:         p.ProductURL,
		AffiliateURL:        affiliate,
		Coupon:              coupon,
		BrandID:             &brandID,
		CategoryID:          categoryID,
		BrandHints:          classes.BrandHints,
		CategoryHints:       classes.CategoryHints,
	}

	now := e.now()
	existing, err := e.repos.Products.FindByExternalID(ctx, p.ProductID)
	switch {
	case err == nil:
		existing.Apply(snapshot, now)
		return false, e.repos.Products.UpdateByExternalID(ctx, existing)
	case errors.Is(err, catalog.ErrProductNotFound):
		product, err := catalog.NewProductFromSnapshot(snapshot, now)
		if err != nil {
			return false, err
		}
		return true, e.repos.Products.Insert(ctx, product)
	default:
		return false, err
	}
}

// affiliateURL reuses the inline promotion link or asks the marketplace for one.
// A failed lookup leaves the product without an affiliate url.
func (e *Engine) affiliateURL(ctx context.Context, p *integration.NormalizedProduct) *string {
	if p.PromotionLink != "" {
		return &p.PromotionLink
	}
	link, ok, err := e.marketplace.GenerateAffiliateLink(ctx, p.ProductURL)
	if err != nil {
		logger.L(ctx).Debug("Affiliate link generation failed",
			zap.String("product_id", p.ProductID),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		return nil
	}
	return optional(link.PromotionURL)
}

func (e *Engine) complete(ctx context.Context, run *syncrun.SyncRun) {
	if err := run.Complete(e.now()); err != nil {
		e.logger.Error("Sync run already finished", zap.String("sync_run_id", run.ID.String()), zap.Error(err))
		return
	}
	summary := run.Summary()
	if !e.persist(ctx, run) {
		e.logEvent(ctx, run.ID, nil, syncrun.LevelWarn, "Sync finished after the run was closed: "+summary, nil)
		return
	}
	e.logEvent(ctx, run.ID, nil, syncrun.LevelInfo, summary, nil)

	if e.cfg.DeactivateMissingAfter > 0 {
		e.deactivateMissing(ctx, run)
	}
}

// fail marks the run failed. Persistence ignores cancellation of ctx so a
// timed-out run is still closed.
func (e *Engine) fail(ctx context.Context, run *syncrun.SyncRun, cause error) {
	msg := fmt.Sprintf("Fatal sync error: %s", cause)
	ctx = context.WithoutCancel(ctx)

	if err := run.Fail(e.now(), errors.New(msg)); err != nil {
		e.logger.Error("Sync run already finished", zap.String("sync_run_id", run.ID.String()), zap.Error(err))
		return
	}
	if !e.persist(ctx, run) {
		return
	}
	e.logEvent(ctx, run.ID, nil, syncrun.LevelError, msg, nil)
}

// persist writes a finished run and reports whether this engine's outcome was
// stored. A run the stale sweep already closed keeps the stored outcome, and
// run is reloaded from it.
func (e *Engine) persist(ctx context.Context, run *syncrun.SyncRun) bool {
	err := e.repos.Runs.Update(ctx, run)
	switch {
	case err == nil:
		return true
	case errors.Is(err, syncrun.ErrSyncRunTerminal):
		logger.L(ctx).Warn("Sync run was closed before it finished, keeping the stored outcome",
			zap.String("outcome", string(run.Status)),
			zap.Error(err),
		)
		stored, ferr := e.repos.Runs.FindByID(ctx, run.ID)
		if ferr != nil {
			logger.L(ctx).Error("Failed to reload closed sync run", zap.Error(ferr))
			return false
		}
		*run = *stored
		return false
	default:
		logger.L(ctx).Error("Failed to persist finished sync run",
			zap.String("outcome", string(run.Status)),
			zap.Error(err),
		)
		return true
	}
}

// deactivateMissing hides products no run has refreshed within the threshold
func (e *Engine) deactivateMissing(ctx context.Context, run *syncrun.SyncRun) {
	cutoff := e.now().Add(-e.cfg.DeactivateMissingAfter)
	n, err := e.repos.Products.DeactivateStale(ctx, cutoff)
	if err != nil {
		e.logEvent(ctx, run.ID, nil, syncrun.LevelWarn, fmt.Sprintf("Deactivating missing products failed: %s", err), nil)
		return
	}
	if n > 0 {
		e.logEvent(ctx, run.ID, nil, syncrun.LevelInfo,
			fmt.Sprintf("Deactivated %d products not seen since %s", n, cutoff.UTC().Format(time.RFC3339)),
			map[string]any{"count": n},
		)
	}
}

// logEvent appends a SyncLog row and mirrors it to zap. A failed append is
// logged and otherwise ignored.
func (e *Engine) logEvent(ctx context.Context, runID uuid.UUID, queryID *uuid.UUID, level syncrun.Level, msg string, data map[string]any) {
	writeSyncLog(ctx, e.repos.Logs, e.now(), runID, queryID, level, msg, data)
}

func writeSyncLog(ctx context.Context, logs syncrun.LogRepository, at time.Time, runID uuid.UUID, queryID *uuid.UUID, level syncrun.Level, msg string, data map[string]any) {
	l := logger.L(ctx)
	if queryID != nil {
		l = l.With(zap.String("query_id", queryID.String()))
	}
	switch level {
	case syncrun.LevelError:
		l.Error(msg)
	case syncrun.LevelWarn:
		l.Warn(msg)
	default:
		l.Info(msg)
	}

	entry := syncrun.NewSyncLog(runID, queryID, level, msg, data)
	entry.CreatedAt = at
	if err := logs.Append(ctx, entry); err != nil {
		l.Error("Failed to write sync log", zap.Error(err))
	}
}

// parseRating reads an evaluation score such as "4.8" or "96.5%"
func parseRating(s string) *float64 {
	if s == "" {
		return nil
	}
	d, ok := catalog.ParseDecimal(s)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
