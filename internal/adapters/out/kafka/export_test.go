package kafka

import "log/slog"

// NewPublisherWithWriter exposes the writer seam to the external test package.
func NewPublisherWithWriter(w messageWriter, topic string, logger *slog.Logger) *Publisher {
	return newPublisher(w, topic, logger)
}

type MessageWriter = messageWriter
