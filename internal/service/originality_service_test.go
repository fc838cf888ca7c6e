package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillchain/originality-service/internal/models"
	"github.com/skillchain/originality-service/internal/repository"
	"github.com/skillchain/originality-service/internal/service/analyzer"
	"github.com/skillchain/originality-service/internal/service/integration"
)

type stubCorpusChecker struct {
	result models.CheckResult
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubCorpusChecker) Check(ctx context.Context, normalizedContent, assignmentID, excludeStudentID string) (models.CheckResult, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return models.CheckResult{}, ctx.Err()
		}
	}
	return s.result, s.err
}

type stubScanClient struct {
	result models.CheckResult
	delay  time.Duration
}

func (s *stubScanClient) Scan(ctx context.Context, content string) models.CheckResult {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return models.CheckResult{CheckType: models.CheckTypeExternalError}
		}
	}
	return s.result
}

func (s *stubScanClient) Configured() bool { return true }

type memoryVerdictCache struct {
	entries map[string]*models.Verdict
}

func newMemoryVerdictCache() *memoryVerdictCache {
	return &memoryVerdictCache{entries: make(map[string]*models.Verdict)}
}

func (c *memoryVerdictCache) Get(ctx context.Context, assignmentID, fingerprint string) (*models.Verdict, error) {
	return c.entries[assignmentID+":"+fingerprint], nil
}

func (c *memoryVerdictCache) Set(ctx context.Context, assignmentID, fingerprint string, verdict *models.Verdict) error {
	c.entries[assignmentID+":"+fingerprint] = verdict
	return nil
}

func newTestService(corpus analyzer.CorpusChecker, scanner integration.ScanClient, cache repository.VerdictCache, deadline time.Duration) OriginalityService {
	scorer := analyzer.NewScorer(analyzer.DefaultMaxExactLength)
	return NewOriginalityService(
		analyzer.NewNormalizer(),
		analyzer.NewFingerprinter("sha256"),
		corpus,
		scanner,
		analyzer.NewAnswerKeyMatcher(scorer, analyzer.NewKeywordExtractor(analyzer.DefaultStopWords), 0.6, 0.7),
		cache,
		deadline,
		zerolog.Nop(),
	)
}

func TestVerify_BothChecksPass(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{Passed: true, Similarity: 0, CheckType: models.CheckTypeInternal},
	}
	scanner := &stubScanClient{
		result: models.CheckResult{Passed: true, Similarity: 0.05, CheckType: models.CheckTypeExternal},
	}
	svc := newTestService(corpus, scanner, nil, 5*time.Second)

	verdict, err := svc.Verify(context.Background(), "original essay content", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.True(t, verdict.Passed)
	assert.Equal(t, 0.05, verdict.OverallSimilarity)
	assert.False(t, verdict.RequiresManualReview)
	assert.False(t, verdict.Timestamp.IsZero())
}

func TestVerify_InternalMatchFails(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{
			Passed:     false,
			Similarity: 0.92,
			Matches:    []models.MatchRecord{{StudentID: "student-2", Similarity: 0.92, MatchType: models.MatchTypeSimilar}},
			CheckType:  models.CheckTypeInternal,
		},
	}
	scanner := &stubScanClient{
		result: models.CheckResult{Passed: true, Similarity: 0.1, CheckType: models.CheckTypeExternal},
	}
	svc := newTestService(corpus, scanner, nil, 5*time.Second)

	verdict, err := svc.Verify(context.Background(), "copied essay content", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.False(t, verdict.Passed)
	assert.Equal(t, 0.92, verdict.OverallSimilarity)
	require.Len(t, verdict.Internal.Matches, 1)
}

func TestVerify_ManualReviewIsSticky(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{Passed: true, CheckType: models.CheckTypeInternal},
	}
	scanner := &stubScanClient{
		result: models.CheckResult{
			Passed:               false,
			Similarity:           1.0,
			CheckType:            models.CheckTypeExternalError,
			RequiresManualReview: true,
		},
	}
	svc := newTestService(corpus, scanner, nil, 5*time.Second)

	verdict, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.False(t, verdict.Passed)
	assert.True(t, verdict.RequiresManualReview)
	assert.Equal(t, 1.0, verdict.OverallSimilarity)
}

func TestVerify_CorpusErrorPropagates(t *testing.T) {
	corpusErr := errors.New("database down")
	corpus := &stubCorpusChecker{err: corpusErr}
	scanner := &stubScanClient{result: models.CheckResult{Passed: true, CheckType: models.CheckTypeExternal}}
	svc := newTestService(corpus, scanner, nil, 5*time.Second)

	_, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, corpusErr)
	assert.Contains(t, err.Error(), "internal corpus check failed")
}

func TestVerify_DeadlineYieldsConservativeVerdict(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{Passed: true, CheckType: models.CheckTypeInternal},
		delay:  10 * time.Second,
	}
	scanner := &stubScanClient{
		result: models.CheckResult{Passed: true, CheckType: models.CheckTypeExternal},
		delay:  10 * time.Second,
	}
	deadline := 50 * time.Millisecond
	svc := newTestService(corpus, scanner, nil, deadline)

	start := time.Now()
	verdict, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")
	elapsed := time.Since(start)

	require.NoError(t, err, "an elapsed deadline is a verdict, not an error")
	assert.GreaterOrEqual(t, elapsed, deadline)
	assert.Less(t, elapsed, 2*time.Second)

	assert.False(t, verdict.Passed)
	assert.Equal(t, 1.0, verdict.OverallSimilarity)
	assert.True(t, verdict.RequiresManualReview)
	assert.Equal(t, models.CheckTypeTimeout, verdict.Internal.CheckType)
	assert.Equal(t, models.CheckTypeTimeout, verdict.External.CheckType)
}

func TestVerify_CacheHitSkipsChecks(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{Passed: true, CheckType: models.CheckTypeInternal},
	}
	scanner := &stubScanClient{
		result: models.CheckResult{Passed: true, Similarity: 0.1, CheckType: models.CheckTypeExternal},
	}
	cache := newMemoryVerdictCache()
	svc := newTestService(corpus, scanner, cache, 5*time.Second)

	first, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.calls)

	second, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.calls, "second verification should be served from cache")
	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.OverallSimilarity, second.OverallSimilarity)
}

func TestVerify_ManualReviewVerdictNotCached(t *testing.T) {
	corpus := &stubCorpusChecker{
		result: models.CheckResult{Passed: true, CheckType: models.CheckTypeInternal},
	}
	scanner := &stubScanClient{
		result: models.CheckResult{
			Passed:               false,
			Similarity:           1.0,
			CheckType:            models.CheckTypeExternalError,
			RequiresManualReview: true,
		},
	}
	cache := newMemoryVerdictCache()
	svc := newTestService(corpus, scanner, cache, 5*time.Second)

	_, err := svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "essay content", "assignment-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, 2, corpus.calls, "a manual-review verdict must be recomputed, not cached")
}

func TestMatchAnswerKey_NormalizesBothSides(t *testing.T) {
	svc := newTestService(
		&stubCorpusChecker{},
		&stubScanClient{},
		nil,
		5*time.Second,
	)

	result := svc.MatchAnswerKey("The Water CYCLE: evaporation, condensation!", "the water cycle evaporation condensation")

	assert.True(t, result.Passed)
	assert.Equal(t, 1.0, result.Similarity)
}

func TestGenerateReport_FormatsPercentages(t *testing.T) {
	svc := newTestService(&stubCorpusChecker{}, &stubScanClient{}, nil, 5*time.Second)

	verdict := &models.Verdict{
		Passed:            false,
		OverallSimilarity: 0.875,
		Internal: models.CheckResult{
			Passed:     false,
			Similarity: 0.875,
			Matches: []models.MatchRecord{
				{StudentID: "student-2", Similarity: 0.875, MatchType: models.MatchTypeSimilar},
				{StudentID: "student-3", Similarity: 1.0, MatchType: models.MatchTypeExact},
			},
			CheckType: models.CheckTypeInternal,
		},
		External: models.CheckResult{
			Passed:     true,
			Similarity: 0.05,
			CheckType:  models.CheckTypeExternal,
		},
		Timestamp: time.Now().UTC(),
	}

	report := svc.GenerateReport(verdict)

	assert.Equal(t, "87.50%", report.Summary.OverallSimilarity)
	assert.Equal(t, "87.50%", report.InternalCheck.Similarity)
	assert.Equal(t, 2, report.InternalCheck.MatchesFound)
	require.Len(t, report.InternalCheck.Details, 2)
	assert.Equal(t, "100.00%", report.InternalCheck.Details[1].Similarity)
	assert.Equal(t, "exact", report.InternalCheck.Details[1].Type)
	assert.Equal(t, "5.00%", report.ExternalCheck.Similarity)
	assert.Equal(t, models.CheckTypeExternal, report.ExternalCheck.CheckType)
}
