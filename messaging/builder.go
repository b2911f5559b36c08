package messaging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plugrid/plugmsg-go/contracts"
	"github.com/plugrid/plugmsg-go/schema"
	"github.com/plugrid/plugmsg-go/serialization"
)

// Builder produces well-formed envelopes for each message type. Every
// envelope is validated before being returned, so a malformed construction
// call fails loudly instead of producing a non-conformant envelope.
//
// Builders hold no per-call state; a single Builder is safe for concurrent
// use.
type Builder struct {
	codecs    *serialization.CodecRegistry
	validator *schema.Validator
	logger    *slog.Logger
	clock     func() time.Time
	newID     func() string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCodecRegistry sets the codec registry used to encode payload data.
func WithCodecRegistry(codecs *serialization.CodecRegistry) BuilderOption {
	return func(b *Builder) {
		b.codecs = codecs
	}
}

// WithValidator sets the validator constructed envelopes are checked with.
func WithValidator(validator *schema.Validator) BuilderOption {
	return func(b *Builder) {
		b.validator = validator
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithClock sets the time source for header timestamps.
func WithClock(clock func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.clock = clock
	}
}

// WithIDGenerator sets the generator for msg_id and session identifiers.
func WithIDGenerator(newID func() string) BuilderOption {
	return func(b *Builder) {
		b.newID = newID
	}
}

// NewBuilder creates a Builder. Defaults: the global codec registry, the
// process-wide validator, time.Now and UUID identifiers.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		codecs: serialization.GetGlobalRegistry(),
		logger: slog.Default(),
		clock:  time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.validator == nil {
		validator, err := schema.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to build default validator: %w", err)
		}
		b.validator = validator
	}

	return b, nil
}

// NewHeader synthesizes a header: fresh msg_id, the given session or a
// fresh one, the current instant and the current protocol version.
func (b *Builder) NewHeader(source, target string, msgType contracts.MessageType, session string) contracts.Header {
	if session == "" {
		session = b.newID()
	}
	return contracts.Header{
		MsgID:   b.newID(),
		Session: session,
		Date:    b.clock().UTC(),
		Source:  source,
		Target:  target,
		MsgType: msgType,
		Version: contracts.CurrentVersion,
	}
}

// ConnectRequest constructs a connect_request envelope.
func (b *Builder) ConnectRequest(source, target string) (*contracts.Envelope, error) {
	env := &contracts.Envelope{
		Header: b.NewHeader(source, target, contracts.ConnectRequest, ""),
	}
	return b.finish(env)
}

// ConnectReply constructs a connect_reply to the given request. The header
// swaps source and target, reuses the request session, and the request
// header becomes the reply's parent header. Content is passed through
// verbatim.
func (b *Builder) ConnectReply(request *contracts.Envelope, content contracts.Content) (*contracts.Envelope, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	parent := request.Header
	env := &contracts.Envelope{
		Header:       b.replyHeader(request, contracts.ConnectReply),
		ParentHeader: &parent,
		Content:      content,
	}
	return b.finish(env)
}

// ExecuteOption configures an execute_request.
type ExecuteOption func(*executeConfig)

type executeConfig struct {
	data        interface{}
	mimeType    string
	silent      bool
	stopOnError bool
}

// WithData attaches a payload to the request.
func WithData(data interface{}) ExecuteOption {
	return func(c *executeConfig) {
		c.data = data
	}
}

// WithFormat selects the serialization format for the payload. The default
// is the native-object format.
func WithFormat(mimeType string) ExecuteOption {
	return func(c *executeConfig) {
		c.mimeType = mimeType
	}
}

// Silent asks the plugin to execute as quietly as possible.
func Silent() ExecuteOption {
	return func(c *executeConfig) {
		c.silent = true
	}
}

// StopOnError aborts the remaining execution queue if this request fails.
func StopOnError() ExecuteOption {
	return func(c *executeConfig) {
		c.stopOnError = true
	}
}

// ExecuteRequest constructs an execute_request envelope for a command.
func (b *Builder) ExecuteRequest(source, target, command string, opts ...ExecuteOption) (*contracts.Envelope, error) {
	var cfg executeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	content := contracts.Content{
		"command":       command,
		"silent":        cfg.silent,
		"stop_on_error": cfg.stopOnError,
	}
	if err := b.mergeData(content, cfg.data, cfg.mimeType); err != nil {
		return nil, err
	}

	env := &contracts.Envelope{
		Header:  b.NewHeader(source, target, contracts.ExecuteRequest, ""),
		Content: content,
	}
	return b.finish(env)
}

// ReplyOption configures an execute_reply.
type ReplyOption func(*replyConfig)

type replyConfig struct {
	status   contracts.Status
	err      error
	data     interface{}
	mimeType string
}

// WithStatus sets the reply status. The default is StatusOK.
func WithStatus(status contracts.Status) ReplyOption {
	return func(c *replyConfig) {
		c.status = status
	}
}

// WithError records the error encountered while processing the request.
// Its textual representation is stamped into content.error regardless of
// status.
func WithError(err error) ReplyOption {
	return func(c *replyConfig) {
		c.err = err
	}
}

// WithReplyData attaches result data to the reply.
func WithReplyData(data interface{}) ReplyOption {
	return func(c *replyConfig) {
		c.data = data
	}
}

// WithReplyFormat selects the serialization format for the result data.
func WithReplyFormat(mimeType string) ReplyOption {
	return func(c *replyConfig) {
		c.mimeType = mimeType
	}
}

// ExecuteReply constructs an execute_reply to the given request. Status
// "error" requires an error value; this is the one cross-field rule the
// structural schema cannot express.
func (b *Builder) ExecuteReply(request *contracts.Envelope, executionCount int, opts ...ReplyOption) (*contracts.Envelope, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	cfg := replyConfig{status: contracts.StatusOK}
	for _, opt := range opts {
		opt(&cfg)
	}

	if executionCount < 0 {
		return nil, &InvalidReplyError{
			Status: cfg.status,
			Reason: fmt.Sprintf("execution count must be non-negative, got %d", executionCount),
		}
	}
	if cfg.status == contracts.StatusError && cfg.err == nil {
		return nil, &InvalidReplyError{
			Status: cfg.status,
			Reason: "an error value must be provided",
		}
	}

	command, ok := request.Content.Command()
	if !ok {
		return nil, fmt.Errorf("request content carries no command")
	}

	content := contracts.Content{
		"command":         command,
		"status":          string(cfg.status),
		"execution_count": executionCount,
	}
	if err := b.mergeData(content, cfg.data, cfg.mimeType); err != nil {
		return nil, err
	}
	if cfg.err != nil {
		content["error"] = contracts.NewErrorInfo(cfg.err).String()
	}

	parent := request.Header
	env := &contracts.Envelope{
		Header:       b.replyHeader(request, contracts.ExecuteReply),
		ParentHeader: &parent,
		Content:      content,
	}
	return b.finish(env)
}

// ErrorReply is shorthand for an execute_reply with status "error".
func (b *Builder) ErrorReply(request *contracts.Envelope, executionCount int, err error) (*contracts.Envelope, error) {
	return b.ExecuteReply(request, executionCount,
		WithStatus(contracts.StatusError), WithError(err))
}

func (b *Builder) replyHeader(request *contracts.Envelope, msgType contracts.MessageType) contracts.Header {
	return b.NewHeader(request.Header.Target, request.Header.Source, msgType, request.Header.Session)
}

func (b *Builder) mergeData(content contracts.Content, data interface{}, mimeType string) error {
	fragment, err := b.codecs.EncodeContent(data, mimeType)
	if err != nil {
		return fmt.Errorf("failed to encode content data: %w", err)
	}
	for k, v := range fragment {
		content[k] = v
	}
	return nil
}

func (b *Builder) finish(env *contracts.Envelope) (*contracts.Envelope, error) {
	if err := b.validator.Validate(env); err != nil {
		return nil, fmt.Errorf("constructed envelope failed validation: %w", err)
	}
	b.logger.Debug("built envelope",
		"msgType", env.Header.MsgType,
		"msgId", env.Header.MsgID,
		"session", env.Header.Session)
	return env, nil
}
