// Package kafka publishes refund requests and order lifecycle events with
// segmentio/kafka-go. When messaging is disabled the Noop implementations
// are wired instead.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publishers use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a synchronous writer that hashes on the message key, so all
// messages of one order land on the same partition.
func NewWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		Logger:       Logger{logger: logger},
		ErrorLogger:  Logger{logger: logger},
	}
}

func publishJSON(ctx context.Context, writer messageWriter, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %T: %w", payload, err)
	}
	return writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()})
}

// Logger adapts zap to kafka-go's logger interface.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) Logger {
	return Logger{logger: logger}
}

func (k Logger) Printf(msg string, args ...any) {
	k.logger.Sugar().Debugf(msg, args...)
}
