package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillchain/originality-service/internal/models"
)

type stubSubmissionSource struct {
	submissions []models.Submission
	err         error
}

func (s *stubSubmissionSource) FindByAssignmentExcludingStudent(ctx context.Context, assignmentID, excludeStudentID string) ([]models.Submission, error) {
	return s.submissions, s.err
}

type countingScorer struct {
	inner Scorer
	calls int
}

func (c *countingScorer) Similarity(a, b string) float64 {
	c.calls++
	return c.inner.Similarity(a, b)
}

func newTestChecker(source SubmissionSource, scorer Scorer) CorpusChecker {
	return NewCorpusChecker(
		source,
		NewNormalizer(),
		scorer,
		NewFingerprinter("sha256"),
		0.7,
		zerolog.Nop(),
	)
}

func TestCorpusChecker_EmptyCorpus(t *testing.T) {
	checker := newTestChecker(&stubSubmissionSource{}, NewScorer(DefaultMaxExactLength))

	result, err := checker.Check(context.Background(), "some normalized text", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 0.0, result.Similarity)
	assert.Empty(t, result.Matches)
	assert.Equal(t, models.CheckTypeInternal, result.CheckType)
}

func TestCorpusChecker_ExactMatchSkipsScoring(t *testing.T) {
	source := &stubSubmissionSource{
		submissions: []models.Submission{
			{ID: "sub-1", StudentID: "student-2", Content: "the exact same answer text"},
		},
	}
	scorer := &countingScorer{inner: NewScorer(DefaultMaxExactLength)}
	checker := newTestChecker(source, scorer)

	result, err := checker.Check(context.Background(), "the exact same answer text", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 1.0, result.Similarity)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, models.MatchTypeExact, result.Matches[0].MatchType)
	assert.Equal(t, "student-2", result.Matches[0].StudentID)
	assert.Equal(t, 0, scorer.calls, "fingerprint hit should bypass the DP comparison")
}

func TestCorpusChecker_SimilarAboveThreshold(t *testing.T) {
	source := &stubSubmissionSource{
		submissions: []models.Submission{
			{ID: "sub-1", StudentID: "student-2", Content: "the cat sat on the warm mat today"},
		},
	}
	checker := newTestChecker(source, NewScorer(DefaultMaxExactLength))

	result, err := checker.Check(context.Background(), "the cat sat on the warm mat again", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, models.MatchTypeSimilar, result.Matches[0].MatchType)
	assert.GreaterOrEqual(t, result.Similarity, 0.7)
	assert.Less(t, result.Similarity, 1.0)
}

func TestCorpusChecker_BelowThresholdPasses(t *testing.T) {
	source := &stubSubmissionSource{
		submissions: []models.Submission{
			{ID: "sub-1", StudentID: "student-2", Content: "an entirely unrelated essay about volcanoes"},
		},
	}
	checker := newTestChecker(source, NewScorer(DefaultMaxExactLength))

	result, err := checker.Check(context.Background(), "a short note on marine biology", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Matches)
	assert.Equal(t, 0.0, result.Similarity)
}

func TestCorpusChecker_SkipsEmptyPriors(t *testing.T) {
	source := &stubSubmissionSource{
		submissions: []models.Submission{
			{ID: "sub-1", StudentID: "student-2", Content: ""},
			{ID: "sub-2", StudentID: "student-3", Content: "completely different topic altogether"},
		},
	}
	checker := newTestChecker(source, NewScorer(DefaultMaxExactLength))

	result, err := checker.Check(context.Background(), "original thoughts on a new subject", "assignment-1", "student-1")

	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestCorpusChecker_SourceError(t *testing.T) {
	sourceErr := errors.New("connection refused")
	checker := newTestChecker(&stubSubmissionSource{err: sourceErr}, NewScorer(DefaultMaxExactLength))

	_, err := checker.Check(context.Background(), "text", "assignment-1", "student-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, sourceErr)
	assert.Contains(t, err.Error(), "failed to fetch prior submissions")
}
