package models

import "time"

// Data Transfer Objects

type VerifyRequest struct {
	Content      string `json:"content" validate:"required"`
	AssignmentID string `json:"assignment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
}

type AnswerKeyRequest struct {
	Content   string `json:"content" validate:"required"`
	AnswerKey string `json:"answer_key" validate:"required"`
}

type HealthCheckResponse struct {
	Status        string    `json:"status"`
	Database      bool      `json:"database"`
	RabbitMQ      bool      `json:"rabbitmq"`
	Cache         bool      `json:"cache"`
	ActiveWorkers int       `json:"active_workers"`
	QueueLength   int       `json:"queue_length"`
	Uptime        string    `json:"uptime"`
	Timestamp     time.Time `json:"timestamp"`
}
