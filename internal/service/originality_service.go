package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
	"github.com/skillchain/originality-service/internal/repository"
	"github.com/skillchain/originality-service/internal/service/analyzer"
	"github.com/skillchain/originality-service/internal/service/integration"
)

// OriginalityService orchestrates the internal corpus check and the external
// detection service into a single Verdict, and scores submissions against
// reference answers.
type OriginalityService interface {
	Verify(ctx context.Context, content, assignmentID, studentID string) (*models.Verdict, error)
	MatchAnswerKey(content, answerKey string) models.AnswerKeyResult
	GenerateReport(verdict *models.Verdict) models.VerdictReport
}

type originalityService struct {
	normalizer    analyzer.Normalizer
	fingerprinter analyzer.Fingerprinter
	corpus        analyzer.CorpusChecker
	scanner       integration.ScanClient
	matcher       analyzer.AnswerKeyMatcher
	cache         repository.VerdictCache // optional, may be nil
	deadline      time.Duration
	logger        zerolog.Logger
}

func NewOriginalityService(
	normalizer analyzer.Normalizer,
	fingerprinter analyzer.Fingerprinter,
	corpus analyzer.CorpusChecker,
	scanner integration.ScanClient,
	matcher analyzer.AnswerKeyMatcher,
	cache repository.VerdictCache,
	deadline time.Duration,
	logger zerolog.Logger,
) OriginalityService {
	return &originalityService{
		normalizer:    normalizer,
		fingerprinter: fingerprinter,
		corpus:        corpus,
		scanner:       scanner,
		matcher:       matcher,
		cache:         cache,
		deadline:      deadline,
		logger:        logger,
	}
}

type internalOutcome struct {
	result models.CheckResult
	err    error
}

// Verify runs both checks concurrently under one deadline. A repository
// failure surfaces as an error; external failures are absorbed into the
// verdict; an elapsed deadline yields a conservative verdict, never an error.
func (s *originalityService) Verify(ctx context.Context, content, assignmentID, studentID string) (*models.Verdict, error) {
	startTime := time.Now()

	s.logger.Info().
		Str("assignment_id", assignmentID).
		Str("student_id", studentID).
		Int("content_length", len(content)).
		Msg("Starting originality verification")

	normalized := s.normalizer.Normalize(content)
	fingerprint := s.fingerprinter.Fingerprint(normalized)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, assignmentID, fingerprint)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Verdict cache lookup failed")
		} else if cached != nil {
			s.logger.Debug().
				Str("assignment_id", assignmentID).
				Str("fingerprint", fingerprint).
				Msg("Verdict served from cache")
			return cached, nil
		}
	}

	// One cancellation scope for both checks: when the deadline fires, the
	// cancel below aborts the corpus read and any in-flight scan retries.
	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	internalCh := make(chan internalOutcome, 1)
	externalCh := make(chan models.CheckResult, 1)

	go func() {
		result, err := s.corpus.Check(ctx, normalized, assignmentID, studentID)
		internalCh <- internalOutcome{result: result, err: err}
	}()

	go func() {
		externalCh <- s.scanner.Scan(ctx, normalized)
	}()

	var internal, external models.CheckResult

	for pending := 2; pending > 0; pending-- {
		select {
		case outcome := <-internalCh:
			if outcome.err != nil {
				return nil, fmt.Errorf("internal corpus check failed: %w", outcome.err)
			}
			internal = outcome.result
		case result := <-externalCh:
			external = result
		case <-ctx.Done():
			s.logger.Warn().
				Str("assignment_id", assignmentID).
				Str("student_id", studentID).
				Dur("deadline", s.deadline).
				Msg("Verification deadline exceeded, returning conservative verdict")
			verdict := s.conservativeVerdict()
			return &verdict, nil
		}
	}

	verdict := &models.Verdict{
		Passed:               internal.Passed && external.Passed,
		OverallSimilarity:    math.Max(internal.Similarity, external.Similarity),
		Internal:             internal,
		External:             external,
		Timestamp:            time.Now().UTC(),
		RequiresManualReview: internal.RequiresManualReview || external.RequiresManualReview,
	}

	if s.cache != nil && !verdict.RequiresManualReview {
		if err := s.cache.Set(ctx, assignmentID, fingerprint, verdict); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache verdict")
		}
	}

	s.logger.Info().
		Str("assignment_id", assignmentID).
		Str("student_id", studentID).
		Bool("passed", verdict.Passed).
		Float64("overall_similarity", verdict.OverallSimilarity).
		Bool("requires_manual_review", verdict.RequiresManualReview).
		Dur("elapsed", time.Since(startTime)).
		Msg("Originality verification completed")

	return verdict, nil
}

// conservativeVerdict is returned when the joint wait times out: a check that
// did not finish in time is not trusted, partially or otherwise.
func (s *originalityService) conservativeVerdict() models.Verdict {
	timedOut := models.CheckResult{
		Passed:               false,
		Similarity:           0,
		CheckType:            models.CheckTypeTimeout,
		RequiresManualReview: true,
	}

	return models.Verdict{
		Passed:               false,
		OverallSimilarity:    1.0,
		Internal:             timedOut,
		External:             timedOut,
		Timestamp:            time.Now().UTC(),
		RequiresManualReview: true,
	}
}

func (s *originalityService) MatchAnswerKey(content, answerKey string) models.AnswerKeyResult {
	normalizedContent := s.normalizer.Normalize(content)
	normalizedAnswer := s.normalizer.Normalize(answerKey)

	result := s.matcher.Match(normalizedContent, normalizedAnswer)

	s.logger.Debug().
		Bool("passed", result.Passed).
		Float64("similarity", result.Similarity).
		Float64("keyword_coverage", result.KeywordMatchPercentage).
		Int("total_keywords", result.TotalKeywords).
		Msg("Answer key check completed")

	return result
}

func (s *originalityService) GenerateReport(verdict *models.Verdict) models.VerdictReport {
	details := make([]models.MatchDetail, 0, len(verdict.Internal.Matches))
	for _, match := range verdict.Internal.Matches {
		details = append(details, models.MatchDetail{
			Similarity: formatPercent(match.Similarity),
			Type:       match.MatchType.String(),
		})
	}

	return models.VerdictReport{
		Summary: models.ReportSummary{
			Passed:               verdict.Passed,
			OverallSimilarity:    formatPercent(verdict.OverallSimilarity),
			RequiresManualReview: verdict.RequiresManualReview,
			Timestamp:            verdict.Timestamp,
		},
		InternalCheck: models.InternalReport{
			Passed:       verdict.Internal.Passed,
			Similarity:   formatPercent(verdict.Internal.Similarity),
			MatchesFound: len(verdict.Internal.Matches),
			Details:      details,
		},
		ExternalCheck: models.ExternalReport{
			Passed:       verdict.External.Passed,
			Similarity:   formatPercent(verdict.External.Similarity),
			SourcesFound: len(verdict.External.Sources),
			CheckType:    verdict.External.CheckType,
		},
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
