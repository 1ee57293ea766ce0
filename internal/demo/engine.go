package demo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/captureclient/demo-engine/internal/llm"
	"github.com/captureclient/demo-engine/internal/observability/metrics"
	"github.com/captureclient/demo-engine/pkg/logging"
)

// serviceFailureMessage is the only technical failure surfaced to visitors.
const serviceFailureMessage = "Sorry, I couldn't get a response right now. Please try again."

const systemInstructions = `CRITICAL INSTRUCTIONS:
- Keep responses under 50 words (natural phone conversation length)
- Be warm, professional, and helpful
- Qualify the lead by asking about their needs
- Extract: name, phone, service needed, urgency, preferred time
- Use natural language (contractions, friendly tone)
- Never mention you're an AI unless asked directly
- Focus on ONE question at a time
- If emergency, prioritize scheduling immediately
- For pricing questions, provide ranges and suggest consultation`

var engineTracer = otel.Tracer("captureclient.internal.demo")

// Config tunes a single demo engine instance.
type Config struct {
	BusinessType       BusinessType
	Model              string
	MaxTokens          int32
	Temperature        float32
	LLMTimeout         time.Duration
	Typewriter         TypewriterConfig
	FieldFlashDuration time.Duration
	ResetOnTypeSwitch  bool

	// OnUpdate receives a state snapshot after every mutation. It must not
	// call back into the engine synchronously.
	OnUpdate func(Snapshot)

	Logger  *logging.Logger
	Metrics *metrics.DemoMetrics
}

// Engine owns one demo session's ConversationState and sequences user and
// AI turns. All mutations flow through SendMessage, SetBusinessType,
// ResetDemo, and the internal response/tick handlers; reads are snapshots.
type Engine struct {
	id     string
	client llm.Client
	cfg    Config
	logger *logging.Logger
	tracer trace.Tracer
	typer  *Typewriter

	mu    sync.Mutex
	state engineState

	// epoch invalidates in-flight completions, reveal ticks, and flash
	// timers after a reset.
	epoch uint64
}

type engineState struct {
	businessType BusinessType
	history      []Message
	crmFields    []CRMField
	leadScore    int
	intent       Intent
	currentAI    string
	isTyping     bool
	isLoading    bool
	errText      string
}

// NewEngine creates an idle engine for the configured business type.
func NewEngine(client llm.Client, cfg Config) *Engine {
	if client == nil {
		panic("demo: completion client cannot be nil")
	}
	if cfg.BusinessType == "" {
		cfg.BusinessType = BusinessGeneral
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 10 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	if cfg.FieldFlashDuration <= 0 {
		cfg.FieldFlashDuration = 600 * time.Millisecond
	}
	if cfg.Typewriter.CharDelay <= 0 {
		cfg.Typewriter = DefaultTypewriterConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	e := &Engine{
		id:     uuid.NewString(),
		client: client,
		cfg:    cfg,
		logger: cfg.Logger,
		tracer: engineTracer,
		typer:  &Typewriter{},
	}
	e.state = initialState(cfg.BusinessType)
	return e
}

// ID returns the engine's session identifier.
func (e *Engine) ID() string { return e.id }

func initialState(bt BusinessType) engineState {
	return engineState{
		businessType: bt,
		crmFields:    CatalogFor(bt),
		intent:       IntentGeneral,
	}
}

// SendMessage accepts a user turn and starts the completion round trip.
// Empty input, or a call while a turn is already in flight, is silently
// rejected; the return value reports acceptance for callers that care.
func (e *Engine) SendMessage(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	e.mu.Lock()
	if e.state.isLoading || e.state.isTyping {
		e.mu.Unlock()
		return false
	}

	e.state.history = append(e.state.history, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	e.state.isLoading = true
	e.state.errText = ""
	e.state.currentAI = ""

	epoch := e.epoch
	history := copyHistory(e.state.history)
	bt := e.state.businessType
	e.mu.Unlock()

	e.publish()
	go e.completeTurn(ctx, epoch, history, bt)
	return true
}

// SetBusinessType swaps the active field catalog. By default the dialogue,
// score, and any in-flight turn are left alone; ResetOnTypeSwitch restores
// the site's original full-reset behavior.
func (e *Engine) SetBusinessType(bt BusinessType) {
	e.mu.Lock()
	if bt == e.state.businessType {
		e.mu.Unlock()
		return
	}

	if e.cfg.ResetOnTypeSwitch {
		e.resetLocked(bt)
		e.mu.Unlock()
		e.publish()
		return
	}

	e.state.businessType = bt
	e.state.crmFields = CatalogFor(bt)
	e.mu.Unlock()
	e.publish()
}

// ResetDemo returns the engine to the initial state for the current
// business type. Any in-flight completion and active reveal are cancelled;
// their late results are dropped.
func (e *Engine) ResetDemo() {
	e.mu.Lock()
	e.resetLocked(e.state.businessType)
	e.mu.Unlock()
	e.publish()
}

func (e *Engine) resetLocked(bt BusinessType) {
	e.epoch++
	e.typer.Cancel()
	e.state = initialState(bt)
}

// Snapshot returns an observational copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	fields := make([]CRMField, len(e.state.crmFields))
	copy(fields, e.state.crmFields)
	return Snapshot{
		SessionID:           e.id,
		BusinessType:        e.state.businessType,
		Greeting:            GreetingFor(e.state.businessType),
		ConversationHistory: copyHistory(e.state.history),
		CRMFields:           fields,
		LeadScore:           e.state.leadScore,
		Intent:              e.state.intent,
		CurrentAIResponse:   e.state.currentAI,
		IsTyping:            e.state.isTyping,
		IsLoading:           e.state.isLoading,
		Error:               e.state.errText,
	}
}

func (e *Engine) publish() {
	if e.cfg.OnUpdate == nil {
		return
	}
	e.cfg.OnUpdate(e.Snapshot())
}

func (e *Engine) completeTurn(ctx context.Context, epoch uint64, history []Message, bt BusinessType) {
	ctx, span := e.tracer.Start(ctx, "demo.complete_turn",
		trace.WithAttributes(
			attribute.String("demo.session_id", e.id),
			attribute.String("demo.business_type", string(bt)),
			attribute.Int("demo.history_len", len(history)),
		))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.Complete(callCtx, llm.Request{
		Model:       e.cfg.Model,
		System:      []string{businessContexts[bt], systemInstructions},
		Messages:    toChatMessages(history),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	e.cfg.Metrics.ObserveLLMLatency(string(bt), time.Since(start).Seconds())

	e.mu.Lock()
	if e.epoch != epoch {
		// The session was reset while we were waiting; drop the result.
		e.mu.Unlock()
		span.AddEvent("stale response dropped")
		return
	}

	if err != nil {
		span.RecordError(err)
		e.state.isLoading = false
		e.state.errText = serviceFailureMessage
		e.mu.Unlock()
		e.publish()

		e.cfg.Metrics.ObserveTurn(string(bt), "error")
		e.logger.Error("demo: completion failed", "error", err, "session_id", e.id, "business_type", bt)
		return
	}

	reply := resp.Text
	e.state.isLoading = false
	e.state.isTyping = true
	e.state.currentAI = ""
	e.mu.Unlock()
	e.publish()

	e.typer.Start(reply, e.cfg.Typewriter,
		func(prefix string) { e.revealTick(epoch, prefix) },
		func() { e.finishTurn(epoch, reply, bt) },
	)
}

func (e *Engine) revealTick(epoch uint64, prefix string) {
	e.mu.Lock()
	if e.epoch != epoch || !e.state.isTyping {
		e.mu.Unlock()
		return
	}
	e.state.currentAI = prefix
	e.mu.Unlock()
	e.publish()
}

func (e *Engine) finishTurn(epoch uint64, reply string, bt BusinessType) {
	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		return
	}

	e.state.history = append(e.state.history, Message{
		ID:        uuid.NewString(),
		Role:      RoleAI,
		Text:      reply,
		CreatedAt: time.Now().UTC(),
	})
	e.state.isTyping = false
	e.state.currentAI = ""

	fields, score, intent := Rescore(e.state.history, e.state.businessType, e.state.crmFields)
	e.state.crmFields = fields
	e.state.leadScore = score
	e.state.intent = intent

	flashing := false
	for _, f := range fields {
		if f.IsFlashing {
			flashing = true
			break
		}
	}
	e.mu.Unlock()
	e.publish()

	e.cfg.Metrics.ObserveTurn(string(bt), "ok")
	e.cfg.Metrics.ObserveLeadScore(score)

	if flashing {
		time.AfterFunc(e.cfg.FieldFlashDuration, func() { e.clearFlash(epoch) })
	}
}

// clearFlash consumes the one-shot flash cues after the bounded interval.
func (e *Engine) clearFlash(epoch uint64) {
	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		return
	}
	changed := false
	for i := range e.state.crmFields {
		if e.state.crmFields[i].IsFlashing {
			e.state.crmFields[i].IsFlashing = false
			changed = true
		}
	}
	e.mu.Unlock()
	if changed {
		e.publish()
	}
}

func copyHistory(history []Message) []Message {
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

func toChatMessages(history []Message) []llm.ChatMessage {
	msgs := make([]llm.ChatMessage, 0, len(history))
	for _, m := range history {
		role := llm.ChatRoleUser
		if m.Role == RoleAI {
			role = llm.ChatRoleAssistant
		}
		msgs = append(msgs, llm.ChatMessage{Role: role, Content: m.Text})
	}
	return msgs
}
