package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"mpin_backend/internal/mpin/domain"
	"mpin_backend/platform/apperr"
	"mpin_backend/platform/config"
	"mpin_backend/platform/logger"
	"mpin_backend/platform/metrics"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
	"golang.org/x/sync/errgroup"
)

// CodeBatchTooLarge is returned when a batch exceeds the configured size.
const CodeBatchTooLarge = "BATCH_TOO_LARGE"

// BlacklistSource is the read-only view of the loaded blacklist.
type BlacklistSource interface {
	domain.Blacklist
	Version() string
	Len(length int) int
}

// Input is one candidate with its optional reference years. Blank years are
// treated as absent.
type Input struct {
	MPIN        string
	DOBSelf     string
	DOBSpouse   string
	Anniversary string
}

// Assessment is a verdict plus an advisory guessability score (0..4) that
// never influences the strength.
type Assessment struct {
	Verdict    domain.Verdict
	GuessScore int
}

// BatchResult carries the outcome of one batch item, in input order.
type BatchResult struct {
	Index      int
	Assessment Assessment
	Err        error
}

// BlacklistInfo summarises the active blacklist.
type BlacklistInfo struct {
	Version   string
	FourDigit int
	SixDigit  int
}

// Service evaluates MPINs with metrics, logging and batch fan-out.
type Service struct {
	eval        *domain.Evaluator
	list        BlacklistSource
	metrics     *metrics.Metrics
	log         *logger.Logger
	maxBatch    int
	concurrency int
}

// New builds the service. m may be nil.
func New(list BlacklistSource, cfg config.EvaluatorConfig, m *metrics.Metrics, log *logger.Logger) (*Service, error) {
	mode, err := domain.ParseMatchMode(cfg.GetMatchMode())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		eval:        domain.NewEvaluator(list, domain.WithMatchMode(mode)),
		list:        list,
		metrics:     m,
		log:         log,
		maxBatch:    cfg.GetMaxBatchSize(),
		concurrency: cfg.GetBatchConcurrency(),
	}, nil
}

// MatchMode returns the demographic comparison mode in use.
func (s *Service) MatchMode() domain.MatchMode {
	return s.eval.Mode()
}

// Evaluate classifies one candidate.
func (s *Service) Evaluate(ctx context.Context, in Input) (Assessment, error) {
	log := s.log.WithContext(ctx)
	years := domain.ReferenceYears{
		Self:        strings.TrimSpace(in.DOBSelf),
		Spouse:      strings.TrimSpace(in.DOBSpouse),
		Anniversary: strings.TrimSpace(in.Anniversary),
	}

	start := time.Now()
	verdict, err := s.eval.Evaluate(in.MPIN, years)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementInvalidFormat()
		log.EvaluationRejected(apperr.GetCode(err))
		return Assessment{}, err
	}

	reasons := verdict.ReasonStrings()
	s.metrics.IncrementOutcome(string(verdict.Strength), strconv.Itoa(len(in.MPIN)), reasons)
	log.Evaluation(len(in.MPIN), string(verdict.Strength), reasons)

	return Assessment{
		Verdict:    verdict,
		GuessScore: guessScore(in.MPIN, years),
	}, nil
}

// EvaluateBatch classifies up to the configured maximum of candidates
// concurrently. Format errors are reported per item; only an empty or
// oversized batch, or a cancelled context, fails the whole call.
func (s *Service) EvaluateBatch(ctx context.Context, inputs []Input) ([]BatchResult, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("batch must contain at least one item").WithOp("mpin.EvaluateBatch")
	}
	if len(inputs) > s.maxBatch {
		return nil, apperr.Validation("batch exceeds maximum size of "+strconv.Itoa(s.maxBatch)).
			WithCode(CodeBatchTooLarge).
			WithOp("mpin.EvaluateBatch")
	}
	s.metrics.ObserveBatchSize(len(inputs))

	results := make([]BatchResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assessment, err := s.Evaluate(gctx, in)
			results[i] = BatchResult{Index: i, Assessment: assessment, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Blacklist describes the active blacklist.
func (s *Service) Blacklist() BlacklistInfo {
	return BlacklistInfo{
		Version:   s.list.Version(),
		FourDigit: s.list.Len(domain.ShortLength),
		SixDigit:  s.list.Len(domain.LongLength),
	}
}

// guessScore runs zxcvbn with the reference years as user inputs, so that a
// code built from them scores lower.
func guessScore(code string, years domain.ReferenceYears) int {
	inputs := make([]string, 0, 3)
	for _, y := range []string{years.Self, years.Spouse, years.Anniversary} {
		if y != "" {
			inputs = append(inputs, y)
		}
	}
	return zxcvbn.PasswordStrength(code, inputs).Score
}
