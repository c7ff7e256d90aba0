package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storekit/sales-reporter/internal/aggregation"
	"github.com/storekit/sales-reporter/internal/ranking"
	"github.com/storekit/sales-reporter/internal/rendering"
	"github.com/storekit/sales-reporter/internal/storage"
	"github.com/storekit/sales-reporter/internal/types"
)

// ReportTitle is the document title and the email subject context.
const ReportTitle = "Weekly Sales Report"

// AssetFetcher retrieves image assets for the selected items, keyed by
// product id.
type AssetFetcher interface {
	FetchAll(ctx context.Context, selection types.RankedSelection) map[string]*types.ImageAsset
}

// ArtifactStore writes and reads back the rendered document.
type ArtifactStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
}

// MetadataLog appends one entry per generated report.
type MetadataLog interface {
	AppendReportMetadata(ctx context.Context, meta types.ReportMetadata) error
}

// Dispatcher emails the report with the artifact attached.
type Dispatcher interface {
	Send(ctx context.Context, body string, attachment []byte) error
}

// Options wires the collaborators and run parameters. Everything is
// passed in explicitly; the pipeline holds no process-global state.
type Options struct {
	Orders     aggregation.OrderSource
	Products   ranking.ProductSource
	Assets     AssetFetcher
	Store      ArtifactStore
	Metadata   MetadataLog
	Dispatcher Dispatcher

	EligibleStatus string
	TopK           int
	Location       *time.Location

	// Now allows tests to pin the invocation time; nil means time.Now.
	Now func() time.Time

	Log *slog.Logger
}

// Result describes how a run ended. ArtifactPath is set as soon as the
// artifact is durably stored, so a later fatal stage still reports what
// was committed.
type Result struct {
	State        State
	FailedStage  State
	Window       types.ReportWindow
	Selection    types.RankedSelection
	ArtifactPath string
	Stages       []StageResult
	Err          error
}

// Run executes one report pipeline invocation. It returns the run
// result and, when the run failed, the fatal error (also recorded in
// the result). Tolerated failures never abort; they are recorded as
// degraded stage results.
func Run(ctx context.Context, opts Options) (*Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	invokedAt := now().In(loc)
	res := &Result{
		State:  StateIdle,
		Window: types.TrailingWeek(invokedAt),
	}
	log.Info("starting report run",
		slog.String("window_start", res.Window.Start.Format(time.RFC3339)),
		slog.String("window_end", res.Window.End.Format(time.RFC3339)))

	// Querying + Aggregating. The query itself is the fatal part; item
	// decoding inside degrades per order.
	res.State = StateQuerying
	agg, err := aggregation.Aggregate(ctx, opts.Orders, opts.EligibleStatus, res.Window, log)
	if err != nil {
		return res, res.fail(StateQuerying, err, log)
	}
	res.State = StateAggregating
	if agg.SkippedOrders > 0 {
		res.record(StateAggregating, OutcomeDegraded,
			fmt.Sprintf("%d of %d orders had missing or malformed items", agg.SkippedOrders, agg.OrderCount))
	} else {
		res.record(StateAggregating, OutcomeOK,
			fmt.Sprintf("aggregated %d orders across %d products", agg.OrderCount, len(agg.Totals.ProductIDs)))
	}

	// Selecting. The bulk lookup is fatal; per-product misses degrade.
	res.State = StateSelecting
	selection, err := ranking.SelectTop(ctx, opts.Products, agg.Totals, opts.TopK, log)
	if err != nil {
		return res, res.fail(StateSelecting, err, log)
	}
	res.Selection = selection
	res.record(StateSelecting, OutcomeOK, fmt.Sprintf("selected top %d items", len(selection)))

	// FetchingAssets cannot fail as a stage; individual fetches degrade.
	res.State = StateFetchingAssets
	assets := opts.Assets.FetchAll(ctx, selection)
	missing := 0
	for _, item := range selection {
		if !assets[item.ProductID].Present() {
			missing++
		}
	}
	if missing > 0 {
		res.record(StateFetchingAssets, OutcomeDegraded,
			fmt.Sprintf("%d of %d items render without an image", missing, len(selection)))
	} else {
		res.record(StateFetchingAssets, OutcomeOK, "all assets fetched")
	}

	res.State = StateRendering
	rows := rendering.BuildRows(selection, assets)
	document, err := rendering.Render(ReportTitle, res.Window.Label(), rows)
	if err != nil {
		return res, res.fail(StateRendering, err, log)
	}
	res.record(StateRendering, OutcomeOK, fmt.Sprintf("rendered %d rows", len(rows)))

	res.State = StatePersisting
	path := storage.ArtifactPath(invokedAt)
	if err := opts.Store.Put(ctx, path, document, rendering.ContentType); err != nil {
		return res, res.fail(StatePersisting, err, log)
	}
	res.ArtifactPath = path
	res.record(StatePersisting, OutcomeOK, "artifact stored at "+path)

	// From here on the artifact is durably committed; failures below
	// are fatal but leave an accepted partial-success state behind.
	res.State = StateRecordingMetadata
	meta := types.ReportMetadata{FilePath: path, CreatedAt: invokedAt}
	if err := opts.Metadata.AppendReportMetadata(ctx, meta); err != nil {
		return res, res.fail(StateRecordingMetadata, err, log)
	}
	res.record(StateRecordingMetadata, OutcomeOK, "metadata recorded")

	res.State = StateRetrieving
	attachment, err := opts.Store.Get(ctx, path)
	if err != nil {
		return res, res.fail(StateRetrieving, err, log)
	}
	res.record(StateRetrieving, OutcomeOK, "artifact read back")

	res.State = StateDispatching
	body := fmt.Sprintf("Attached is the weekly sales report covering %s.", res.Window.Label())
	if err := opts.Dispatcher.Send(ctx, body, attachment); err != nil {
		return res, res.fail(StateDispatching, err, log)
	}
	res.record(StateDispatching, OutcomeOK, "report emailed")

	res.State = StateCompleted
	log.Info("report run completed", slog.String("artifact_path", path))
	return res, nil
}

// fail marks the run failed at stage and returns the wrapped error.
func (r *Result) fail(stage State, err error, log *slog.Logger) error {
	wrapped := fmt.Errorf("stage %s failed: %w", stage, err)
	r.State = StateFailed
	r.FailedStage = stage
	r.Err = wrapped
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: OutcomeFatal, Err: err})
	if r.ArtifactPath != "" {
		log.Error("report run failed after artifact was stored",
			slog.String("stage", stage.String()),
			slog.String("artifact_path", r.ArtifactPath),
			slog.Any("error", err))
	} else {
		log.Error("report run failed",
			slog.String("stage", stage.String()),
			slog.Any("error", err))
	}
	return wrapped
}

func (r *Result) record(stage State, outcome Outcome, note string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: outcome, Note: note})
}
