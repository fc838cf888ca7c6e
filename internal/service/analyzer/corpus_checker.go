package analyzer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
)

// SubmissionSource is the read-only view of the submission corpus owned by
// the calling system.
type SubmissionSource interface {
	FindByAssignmentExcludingStudent(ctx context.Context, assignmentID, excludeStudentID string) ([]models.Submission, error)
}

// CorpusChecker compares a new submission against all prior submissions for
// the same assignment, excluding the submitter.
type CorpusChecker interface {
	Check(ctx context.Context, normalizedContent, assignmentID, excludeStudentID string) (models.CheckResult, error)
}

type corpusChecker struct {
	submissions   SubmissionSource
	normalizer    Normalizer
	scorer        Scorer
	fingerprinter Fingerprinter
	threshold     float64
	logger        zerolog.Logger
}

func NewCorpusChecker(
	submissions SubmissionSource,
	normalizer Normalizer,
	scorer Scorer,
	fingerprinter Fingerprinter,
	threshold float64,
	logger zerolog.Logger,
) CorpusChecker {
	return &corpusChecker{
		submissions:   submissions,
		normalizer:    normalizer,
		scorer:        scorer,
		fingerprinter: fingerprinter,
		threshold:     threshold,
		logger:        logger,
	}
}

func (c *corpusChecker) Check(ctx context.Context, normalizedContent, assignmentID, excludeStudentID string) (models.CheckResult, error) {
	contentFingerprint := c.fingerprinter.Fingerprint(normalizedContent)

	priors, err := c.submissions.FindByAssignmentExcludingStudent(ctx, assignmentID, excludeStudentID)
	if err != nil {
		return models.CheckResult{}, fmt.Errorf("failed to fetch prior submissions: %w", err)
	}

	c.logger.Debug().
		Str("assignment_id", assignmentID).
		Int("prior_submissions", len(priors)).
		Msg("Got prior submissions")

	var matches []models.MatchRecord
	maxSimilarity := 0.0

	for _, prior := range priors {
		if prior.Content == "" {
			c.logger.Warn().
				Str("submission_id", prior.ID).
				Msg("Prior submission has empty content, skipping")
			continue
		}

		normalizedPrior := c.normalizer.Normalize(prior.Content)

		// Equal fingerprints mean identical text, the DP comparison is skipped.
		if c.fingerprinter.Fingerprint(normalizedPrior) == contentFingerprint {
			matches = append(matches, models.MatchRecord{
				StudentID:  prior.StudentID,
				Similarity: 1.0,
				MatchType:  models.MatchTypeExact,
			})
			maxSimilarity = 1.0
			continue
		}

		similarity := c.scorer.Similarity(normalizedContent, normalizedPrior)
		if similarity >= c.threshold {
			matches = append(matches, models.MatchRecord{
				StudentID:  prior.StudentID,
				Similarity: similarity,
				MatchType:  models.MatchTypeSimilar,
			})
			if similarity > maxSimilarity {
				maxSimilarity = similarity
			}
		}

		c.logger.Debug().
			Str("submission_id", prior.ID).
			Float64("similarity", similarity).
			Msg("Compared with prior submission")
	}

	return models.CheckResult{
		Passed:     len(matches) == 0,
		Similarity: maxSimilarity,
		Matches:    matches,
		CheckType:  models.CheckTypeInternal,
	}, nil
}
