package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plugrid/plugmsg-go/contracts"
	"github.com/plugrid/plugmsg-go/schema"
	"github.com/plugrid/plugmsg-go/serialization"
)

// EnvelopeHandler consumes an envelope at the end of an inbound pipeline.
type EnvelopeHandler interface {
	Handle(ctx context.Context, env *contracts.Envelope) error
}

// EnvelopeHandlerFunc is a function adapter for EnvelopeHandler.
type EnvelopeHandlerFunc func(ctx context.Context, env *contracts.Envelope) error

// Handle implements EnvelopeHandler.
func (f EnvelopeHandlerFunc) Handle(ctx context.Context, env *contracts.Envelope) error {
	return f(ctx, env)
}

// EnvelopeInterceptor processes an envelope before it reaches the final
// handler.
type EnvelopeInterceptor interface {
	// Intercept processes the envelope and calls the next handler in
	// the chain.
	Intercept(ctx context.Context, env *contracts.Envelope, next EnvelopeHandler) error

	// Name returns the interceptor name for logging.
	Name() string
}

// Pipeline chains interceptors around a final envelope handler. The usual
// inbound chain is validation, then payload decoding, then dispatch.
type Pipeline struct {
	interceptors []EnvelopeInterceptor
	logger       *slog.Logger
}

// NewPipeline creates an empty pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger}
}

// Add appends an interceptor to the chain.
func (p *Pipeline) Add(interceptor EnvelopeInterceptor) *Pipeline {
	p.interceptors = append(p.interceptors, interceptor)
	return p
}

// Execute runs the envelope through the chain and into the final handler.
func (p *Pipeline) Execute(ctx context.Context, env *contracts.Envelope, finalHandler EnvelopeHandler) error {
	handler := finalHandler
	for i := len(p.interceptors) - 1; i >= 0; i-- {
		interceptor := p.interceptors[i]
		next := handler
		handler = EnvelopeHandlerFunc(func(ctx context.Context, env *contracts.Envelope) error {
			return interceptor.Intercept(ctx, env, next)
		})
	}
	return handler.Handle(ctx, env)
}

type contextKey string

const decodedDataKey contextKey = "plugmsg:decoded-data"

// DecodedData returns the payload decoded by a DecodeInterceptor earlier in
// the chain.
func DecodedData(ctx context.Context) (interface{}, bool) {
	v := ctx.Value(decodedDataKey)
	if v == nil {
		return nil, false
	}
	return v, true
}

// ValidationInterceptor rejects envelopes that fail structural validation
// before they reach any dispatcher.
type ValidationInterceptor struct {
	validator *schema.Validator
}

// NewValidationInterceptor creates a validation interceptor.
func NewValidationInterceptor(validator *schema.Validator) *ValidationInterceptor {
	return &ValidationInterceptor{validator: validator}
}

// Intercept implements EnvelopeInterceptor.
func (i *ValidationInterceptor) Intercept(ctx context.Context, env *contracts.Envelope, next EnvelopeHandler) error {
	if err := i.validator.Validate(env); err != nil {
		return fmt.Errorf("inbound envelope rejected: %w", err)
	}
	return next.Handle(ctx, env)
}

// Name implements EnvelopeInterceptor.
func (i *ValidationInterceptor) Name() string { return "validation" }

// DecodeInterceptor decodes the envelope's content payload and makes it
// available to downstream handlers via DecodedData.
type DecodeInterceptor struct {
	codecs *serialization.CodecRegistry
}

// NewDecodeInterceptor creates a decode interceptor over the given codec
// registry; nil selects the global registry.
func NewDecodeInterceptor(codecs *serialization.CodecRegistry) *DecodeInterceptor {
	if codecs == nil {
		codecs = serialization.GetGlobalRegistry()
	}
	return &DecodeInterceptor{codecs: codecs}
}

// Intercept implements EnvelopeInterceptor.
func (i *DecodeInterceptor) Intercept(ctx context.Context, env *contracts.Envelope, next EnvelopeHandler) error {
	data, err := i.codecs.DecodeContent(env.Content)
	if err != nil {
		return err
	}
	if data != nil {
		ctx = context.WithValue(ctx, decodedDataKey, data)
	}
	return next.Handle(ctx, env)
}

// Name implements EnvelopeInterceptor.
func (i *DecodeInterceptor) Name() string { return "decode" }

// LoggingInterceptor logs envelope processing.
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a logging interceptor.
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger}
}

// Intercept implements EnvelopeInterceptor.
func (i *LoggingInterceptor) Intercept(ctx context.Context, env *contracts.Envelope, next EnvelopeHandler) error {
	start := time.Now()
	err := next.Handle(ctx, env)
	if err != nil {
		i.logger.Warn("envelope processing failed",
			"msgType", env.Header.MsgType,
			"msgId", env.Header.MsgID,
			"duration", time.Since(start),
			"error", err)
		return err
	}
	i.logger.Debug("envelope processed",
		"msgType", env.Header.MsgType,
		"msgId", env.Header.MsgID,
		"duration", time.Since(start))
	return nil
}

// Name implements EnvelopeInterceptor.
func (i *LoggingInterceptor) Name() string { return "logging" }

// NewInboundPipeline wires the standard receive path: validate, then decode
// the payload, with logging around both.
func NewInboundPipeline(validator *schema.Validator, codecs *serialization.CodecRegistry, logger *slog.Logger) *Pipeline {
	return NewPipeline(logger).
		Add(NewLoggingInterceptor(logger)).
		Add(NewValidationInterceptor(validator)).
		Add(NewDecodeInterceptor(codecs))
}
