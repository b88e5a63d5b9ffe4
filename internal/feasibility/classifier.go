package feasibility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/internal/domain/reaction"
	"github.com/turtacn/RxnFeasibility/internal/encoding"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// Params carries everything needed to construct a Classifier.  The model
// fields select which trained artifact is loaded; they must reproduce the
// training-time configuration exactly.
type Params struct {
	ModelsDir        string
	ModelType        rtypes.ModelType
	FingerprintType  rtypes.FingerprintType
	NumBits          int
	MaxSpecies       int
	Positioning      rtypes.CofactorPositioning
	CofactorsFile    string
	BatchConcurrency int
}

// ParamsFromConfig maps the application configuration onto classifier Params.
func ParamsFromConfig(mc config.ModelConfig, bc config.BatchConfig) Params {
	return Params{
		ModelsDir:        mc.ModelsDir,
		ModelType:        rtypes.ModelType(mc.Type),
		FingerprintType:  rtypes.FingerprintType(mc.FingerprintType),
		NumBits:          mc.NumBits,
		MaxSpecies:       mc.MaxSpecies,
		Positioning:      rtypes.CofactorPositioning(mc.CofactorPositioning),
		CofactorsFile:    mc.CofactorsFile,
		BatchConcurrency: bc.Concurrency,
	}
}

// validate rejects parameter combinations before any file is touched.
func (p Params) validate() error {
	if !p.ModelType.IsValid() {
		return errors.InvalidConfiguration(fmt.Sprintf("unknown model type %q", p.ModelType))
	}
	if !p.FingerprintType.IsValid() {
		return errors.UnsupportedFingerprintType(
			fmt.Sprintf("unknown fingerprint type %q", p.FingerprintType))
	}
	if !p.Positioning.IsValid() {
		return errors.InvalidConfiguration(
			fmt.Sprintf("unknown cofactor positioning %q", p.Positioning))
	}
	if p.NumBits < 1 {
		return errors.InvalidConfiguration(
			fmt.Sprintf("fingerprint width must be ≥ 1, got %d", p.NumBits))
	}
	if p.MaxSpecies < 1 {
		return errors.InvalidConfiguration(
			fmt.Sprintf("max species must be ≥ 1, got %d", p.MaxSpecies))
	}
	if p.ModelsDir == "" {
		return errors.InvalidConfiguration("models directory is required")
	}
	if p.CofactorsFile == "" {
		return errors.InvalidConfiguration("cofactors file is required")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Classifier
// ─────────────────────────────────────────────────────────────────────────────

// Classifier predicts enzymatic reaction feasibility.  Construction is eager:
// the cofactor table, model artifact and threshold are loaded up front, so a
// successfully constructed Classifier can only fail on malformed input.
// It is immutable and safe for concurrent use.
type Classifier struct {
	encoder     *encoding.Encoder
	scorer      Scorer
	threshold   float64
	concurrency int
	logger      logging.Logger
	metrics     *prom.AppMetrics
}

// NewClassifier builds a Classifier from Params, loading every artifact
// eagerly.  All configuration and artifact problems surface here, never at
// prediction time.
func NewClassifier(p Params, logger logging.Logger, metrics *prom.AppMetrics) (*Classifier, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prom.NewNopAppMetrics()
	}
	if p.BatchConcurrency < 1 {
		p.BatchConcurrency = 1
	}

	fper, err := molecule.NewFingerprinter(p.FingerprintType, p.NumBits)
	if err != nil {
		return nil, err
	}

	cofactors, err := reaction.LoadCofactors(p.CofactorsFile)
	if err != nil {
		return nil, err
	}

	enc, err := encoding.NewEncoder(fper, cofactors, p.Positioning, p.MaxSpecies)
	if err != nil {
		return nil, err
	}

	locator := ArtifactLocator{
		ModelsDir:       p.ModelsDir,
		ModelType:       p.ModelType,
		FingerprintType: p.FingerprintType,
		NumBits:         p.NumBits,
		MaxSpecies:      p.MaxSpecies,
		Positioning:     p.Positioning,
	}

	loadStart := time.Now()
	scorer, err := NewXGBoostScorer(locator.ModelPath())
	if err != nil {
		return nil, err
	}
	threshold, err := locator.LoadThreshold()
	if err != nil {
		return nil, err
	}

	if n := scorer.NumFeatures(); n > enc.Size() {
		return nil, errors.InvalidConfiguration(fmt.Sprintf(
			"model reads %d features but the configured encoding produces %d", n, enc.Size()))
	}

	prom.RecordModelLoad(metrics,
		p.ModelType.String(), p.FingerprintType.String(), p.Positioning.String(),
		time.Since(loadStart))
	logger.Info("feasibility model loaded",
		logging.String("model_type", p.ModelType.String()),
		logging.String("fingerprint_type", p.FingerprintType.String()),
		logging.String("positioning", p.Positioning.String()),
		logging.Int("feature_size", enc.Size()),
		logging.Float64("threshold", threshold),
		logging.Int("cofactors", cofactors.Len()),
		logging.Duration("load_time", time.Since(loadStart)))

	return &Classifier{
		encoder:     enc,
		scorer:      scorer,
		threshold:   threshold,
		concurrency: p.BatchConcurrency,
		logger:      logger.Named("classifier"),
		metrics:     metrics,
	}, nil
}

// NewClassifierWithComponents assembles a Classifier from pre-built parts.
// Intended for tests and for callers that manage artifact loading themselves.
func NewClassifierWithComponents(
	enc *encoding.Encoder,
	scorer Scorer,
	threshold float64,
	concurrency int,
	logger logging.Logger,
	metrics *prom.AppMetrics,
) (*Classifier, error) {
	if enc == nil || scorer == nil {
		return nil, errors.InvalidConfiguration("classifier requires an encoder and a scorer")
	}
	if threshold < 0 || threshold > 1 {
		return nil, errors.InvalidConfiguration(
			fmt.Sprintf("threshold %v is outside [0, 1]", threshold))
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prom.NewNopAppMetrics()
	}
	return &Classifier{
		encoder:     enc,
		scorer:      scorer,
		threshold:   threshold,
		concurrency: concurrency,
		logger:      logger.Named("classifier"),
		metrics:     metrics,
	}, nil
}

// Threshold returns the decision threshold loaded with the model.
func (c *Classifier) Threshold() float64 { return c.threshold }

// ─────────────────────────────────────────────────────────────────────────────
// Prediction
// ─────────────────────────────────────────────────────────────────────────────

// Predict runs the full pipeline on one reaction string: parse, encode,
// score, threshold.
func (c *Classifier) Predict(ctx context.Context, rxn string) (*rtypes.PredictionDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	parsed, err := reaction.Parse(rxn)
	if err != nil {
		prom.RecordPredictionError(c.metrics, string(errors.GetCode(err)))
		return nil, err
	}

	features, err := c.encoder.Encode(parsed)
	if err != nil {
		prom.RecordPredictionError(c.metrics, string(errors.GetCode(err)))
		return nil, err
	}

	score, err := c.scorer.Score(features)
	if err != nil {
		prom.RecordPredictionError(c.metrics, string(errors.GetCode(err)))
		return nil, errors.Wrap(err, errors.ErrCodeScoringFailed, "model scoring failed")
	}

	label := 0
	if score >= c.threshold {
		label = 1
	}

	prom.RecordPrediction(c.metrics, c.encoder.Positioning().String(), score, label, time.Since(start))
	c.logger.Debug("prediction complete",
		logging.String("reaction", rxn),
		logging.Float64("score", score),
		logging.Int("label", label),
		logging.Duration("elapsed", time.Since(start)))

	return &rtypes.PredictionDTO{
		Reaction:  rxn,
		Score:     score,
		Label:     label,
		Threshold: c.threshold,
	}, nil
}

// PredictProba returns only the feasibility probability.
func (c *Classifier) PredictProba(ctx context.Context, rxn string) (float64, error) {
	p, err := c.Predict(ctx, rxn)
	if err != nil {
		return 0, err
	}
	return p.Score, nil
}

// PredictLabel returns the thresholded feasibility label: 1 when the score
// reaches the threshold, else 0.
func (c *Classifier) PredictLabel(ctx context.Context, rxn string) (int, error) {
	p, err := c.Predict(ctx, rxn)
	if err != nil {
		return 0, err
	}
	return p.Label, nil
}

// PredictBatch scores many reactions with a bounded worker pool and returns
// one item per input, input order preserved.  Per-item failures are recorded
// on the item; the batch itself never fails once started.  A cancelled
// context marks the remaining items with the context error.
func (c *Classifier) PredictBatch(ctx context.Context, rxns []string) []rtypes.BatchItemDTO {
	items := make([]rtypes.BatchItemDTO, len(rxns))
	if len(rxns) == 0 {
		return items
	}
	prom.RecordBatch(c.metrics, len(rxns))

	workers := c.concurrency
	if workers > len(rxns) {
		workers = len(rxns)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				items[i] = c.batchItem(ctx, rxns[i])
			}
		}()
	}

feed:
	for i := range rxns {
		select {
		case indices <- i:
		case <-ctx.Done():
			// Mark everything not yet handed out.
			for j := i; j < len(rxns); j++ {
				items[j] = rtypes.BatchItemDTO{Reaction: rxns[j], Error: ctx.Err().Error()}
			}
			break feed
		}
	}
	close(indices)
	wg.Wait()

	return items
}

// batchItem runs one batch entry and folds its outcome into a DTO.
func (c *Classifier) batchItem(ctx context.Context, rxn string) rtypes.BatchItemDTO {
	p, err := c.Predict(ctx, rxn)
	if err != nil {
		prom.RecordBatchItemFailure(c.metrics, string(errors.GetCode(err)))
		return rtypes.BatchItemDTO{Reaction: rxn, Error: err.Error()}
	}
	return rtypes.BatchItemDTO{Reaction: rxn, Prediction: p}
}
