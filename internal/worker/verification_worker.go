package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
	"github.com/skillchain/originality-service/internal/repository"
	"github.com/skillchain/originality-service/internal/service"
	"github.com/skillchain/originality-service/internal/worker/queue"
)

// VerificationWorker consumes submission.created events, runs the full
// originality verification plus the answer-key check, and publishes the
// outcome for the grading pipeline.
type VerificationWorker interface {
	Start(ctx context.Context) error
	Stop() error
	ProcessSubmission(ctx context.Context, event models.SubmissionCreatedEvent) error
	GetStats() WorkerStats
}

type WorkerStats struct {
	ActiveWorkers  int `json:"active_workers"`
	TotalProcessed int `json:"total_processed"`
	FailedJobs     int `json:"failed_jobs"`
	QueueLength    int `json:"queue_length"`
}

type PublishConfig struct {
	Exchange   string
	RoutingKey string
}

type verificationWorker struct {
	workerPool     *WorkerPool
	queueConsumer  queue.Consumer
	queuePublisher queue.Publisher
	assignments    repository.AssignmentRepository
	originality    service.OriginalityService
	publishConfig  PublishConfig
	logger         zerolog.Logger
	stats          WorkerStats
	statsMutex     sync.RWMutex
	startTime      time.Time
}

func NewVerificationWorker(
	workerPool *WorkerPool,
	queueConsumer queue.Consumer,
	queuePublisher queue.Publisher,
	assignments repository.AssignmentRepository,
	originality service.OriginalityService,
	publishConfig PublishConfig,
	logger zerolog.Logger,
) VerificationWorker {
	return &verificationWorker{
		workerPool:     workerPool,
		queueConsumer:  queueConsumer,
		queuePublisher: queuePublisher,
		assignments:    assignments,
		originality:    originality,
		publishConfig:  publishConfig,
		logger:         logger,
		startTime:      time.Now(),
	}
}

func (w *verificationWorker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting verification worker...")

	if err := w.workerPool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	msgs, err := w.queueConsumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Verification worker started successfully")
	return nil
}

func (w *verificationWorker) Stop() error {
	w.logger.Info().Msg("Stopping verification worker...")

	if err := w.workerPool.Stop(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to stop worker pool")
	}

	if err := w.queueConsumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}

	w.logger.Info().
		Int("total_processed", w.stats.TotalProcessed).
		Int("failed_jobs", w.stats.FailedJobs).
		Dur("uptime", time.Since(w.startTime)).
		Msg("Verification worker stopped")

	return nil
}

func (w *verificationWorker) processMessages(ctx context.Context, msgs <-chan queue.Message) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping message processing")
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn().Msg("Message channel closed")
				return
			}

			w.workerPool.Submit(func() {
				if err := w.processMessage(ctx, msg); err != nil {
					w.logger.Error().Err(err).Msg("Failed to process message")

					w.statsMutex.Lock()
					w.stats.FailedJobs++
					w.statsMutex.Unlock()

					// Malformed events are acked away, transient failures requeue.
					if isPermanentError(err) {
						if ackErr := msg.Ack(false); ackErr != nil {
							w.logger.Error().Err(ackErr).Msg("Failed to ack message")
						}
						return
					}

					if nackErr := msg.Nack(false, true); nackErr != nil {
						w.logger.Error().Err(nackErr).Msg("Failed to nack message")
					}
					return
				}

				if err := msg.Ack(false); err != nil {
					w.logger.Error().Err(err).Msg("Failed to ack message")
				}

				w.statsMutex.Lock()
				w.stats.TotalProcessed++
				w.statsMutex.Unlock()
			})
		}
	}
}

func (w *verificationWorker) processMessage(ctx context.Context, msg queue.Message) error {
	var event models.SubmissionCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return permanent(fmt.Errorf("failed to unmarshal event: %w", err))
	}

	if strings.TrimSpace(event.SubmissionID) == "" {
		return permanent(errors.New("empty submission_id"))
	}
	if strings.TrimSpace(event.AssignmentID) == "" {
		return permanent(errors.New("empty assignment_id"))
	}
	if strings.TrimSpace(event.Content) == "" {
		return permanent(errors.New("empty content"))
	}

	w.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("assignment_id", event.AssignmentID).
		Str("student_id", event.StudentID).
		Msg("Processing submission verification")

	return w.ProcessSubmission(ctx, event)
}

func (w *verificationWorker) ProcessSubmission(ctx context.Context, event models.SubmissionCreatedEvent) error {
	startTime := time.Now()

	verdict, err := w.originality.Verify(ctx, event.Content, event.AssignmentID, event.StudentID)
	if err != nil {
		return fmt.Errorf("failed to verify submission: %w", err)
	}

	var answerKeyResult *models.AnswerKeyResult
	referenceAnswer, err := w.assignments.GetReferenceAnswer(ctx, event.AssignmentID)
	if err != nil {
		w.logger.Error().Err(err).
			Str("assignment_id", event.AssignmentID).
			Msg("Failed to fetch reference answer, skipping answer-key check")
	} else if referenceAnswer != "" {
		result := w.originality.MatchAnswerKey(event.Content, referenceAnswer)
		answerKeyResult = &result
	}

	completedAt := time.Now()
	completed := models.VerificationCompletedEvent{
		VerificationID:       uuid.New().String(),
		SubmissionID:         event.SubmissionID,
		AssignmentID:         event.AssignmentID,
		StudentID:            event.StudentID,
		Passed:               verdict.Passed,
		OverallSimilarity:    verdict.OverallSimilarity,
		RequiresManualReview: verdict.RequiresManualReview,
		Verdict:              verdict,
		AnswerKey:            answerKeyResult,
		ProcessingTimeMs:     int(completedAt.Sub(startTime).Milliseconds()),
		CompletedAt:          completedAt,
	}

	body, err := json.Marshal(completed)
	if err != nil {
		return permanent(fmt.Errorf("failed to marshal completion event: %w", err))
	}

	if err := w.queuePublisher.Publish(ctx, w.publishConfig.Exchange, w.publishConfig.RoutingKey, body); err != nil {
		return fmt.Errorf("failed to publish completion event: %w", err)
	}

	w.logger.Info().
		Str("submission_id", event.SubmissionID).
		Bool("passed", verdict.Passed).
		Float64("overall_similarity", verdict.OverallSimilarity).
		Bool("requires_manual_review", verdict.RequiresManualReview).
		Int("processing_time_ms", completed.ProcessingTimeMs).
		Msg("Submission verification completed")

	return nil
}

func (w *verificationWorker) GetStats() WorkerStats {
	w.statsMutex.RLock()
	stats := w.stats
	w.statsMutex.RUnlock()

	queueLength, err := w.queueConsumer.QueueLength()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to get queue length")
	} else {
		stats.QueueLength = queueLength
	}

	stats.ActiveWorkers = w.workerPool.ActiveWorkers()

	return stats
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return permanentError{err: err}
}

func isPermanentError(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
