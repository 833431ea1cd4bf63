package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"

	"codeberg.org/snonux/deeptranslate/internal"
	"codeberg.org/snonux/deeptranslate/internal/history"
	"codeberg.org/snonux/deeptranslate/internal/input"
	"codeberg.org/snonux/deeptranslate/internal/prompt"
	"codeberg.org/snonux/deeptranslate/internal/translation"
)

// Resolver produces the source text of a request
type Resolver interface {
	Resolve(ctx context.Context, mode input.Mode, text, imagePath string) (string, error)
}

// Translator performs the remote translation call
type Translator interface {
	Translate(ctx context.Context, systemPrompt, userText, apiKey string) (string, error)
}

// Recorder stores completed translations
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Request is everything one translation needs. It is built fresh per
// trigger and not reused.
type Request struct {
	Mode      input.Mode
	Text      string
	ImagePath string
	Target    translation.Language
	Glossary  []string
	APIKey    string
}

// Outcome is the result of a request: a translation or an error
type Outcome struct {
	Text string
	Err  error
}

// Kind classifies the outcome's error
func (o Outcome) Kind() Kind {
	return KindOf(o.Err)
}

// Task is a started request. Done is closed after the outcome has been
// delivered and the orchestrator is Idle again.
type Task struct {
	done    chan struct{}
	outcome Outcome
}

// Done returns a channel closed on completion
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Outcome waits for completion and returns the outcome
func (t *Task) Outcome() Outcome {
	<-t.done
	return t.outcome
}

// Config holds the orchestrator's collaborators and callbacks
type Config struct {
	Resolver   Resolver
	Translator Translator
	Recorder   Recorder

	// Dispatch runs f on the interactive thread. Defaults to calling f
	// directly on the worker goroutine.
	Dispatch func(f func())

	// OnStateChange and OnFinish are invoked through Dispatch, except for
	// the transition to Running which happens inside Start.
	OnStateChange func(State)
	OnFinish      func(Outcome)
}

// Orchestrator sequences input resolution, prompt building and the
// translation call on a single background worker.
type Orchestrator struct {
	config Config
	now    func() time.Time

	mu    sync.Mutex
	state State
}

// New creates an orchestrator in the Idle state
func New(config Config) *Orchestrator {
	if config.Dispatch == nil {
		config.Dispatch = func(f func()) { f() }
	}

	return &Orchestrator{
		config: config,
		now:    time.Now,
		state:  Idle,
	}
}

// State returns the current state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Start begins a translation on a new goroutine. It returns ErrBusy if a
// request is still running.
func (o *Orchestrator) Start(ctx context.Context, req Request) (*Task, error) {
	o.mu.Lock()
	if o.state != Idle {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.state = Running
	o.mu.Unlock()
	o.notify(Running)

	// Snapshot so later glossary reloads cannot leak into this request
	req.Glossary = append([]string(nil), req.Glossary...)

	task := &Task{done: make(chan struct{})}

	go func() {
		text, err := o.run(ctx, req)
		outcome := Outcome{Text: text, Err: err}
		o.config.Dispatch(func() {
			o.finish(task, outcome)
		})
	}()

	return task, nil
}

// Run starts a request and waits for its outcome
func (o *Orchestrator) Run(ctx context.Context, req Request) (string, error) {
	task, err := o.Start(ctx, req)
	if err != nil {
		return "", err
	}

	outcome := task.Outcome()
	return outcome.Text, outcome.Err
}

func (o *Orchestrator) run(ctx context.Context, req Request) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translation worker panicked: %v", r)
		}
	}()

	logger := log.WithFields(log.Fields{
		"mode":     req.Mode.String(),
		"target":   req.Target.Code(),
		"glossary": len(req.Glossary),
	})

	source, err := o.config.Resolver.Resolve(ctx, req.Mode, req.Text, req.ImagePath)
	if err != nil {
		return "", err
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return "", ErrMissingKey
	}

	systemPrompt := prompt.Build(req.Glossary, req.Target)

	logger.WithField("chars", len([]rune(source))).Info("translating")
	start := o.now()

	result, err = o.config.Translator.Translate(ctx, systemPrompt, source, apiKey)
	if err != nil {
		return "", err
	}

	logger.WithField("duration", o.now().Sub(start).Round(time.Millisecond).String()).Info("translation finished")
	o.record(ctx, req, source, result)

	return result, nil
}

// record writes a successful translation to the history. Failures are
// logged only.
func (o *Orchestrator) record(ctx context.Context, req Request, source, result string) {
	if o.config.Recorder == nil {
		return
	}

	now := o.now()
	entry := history.Entry{
		ID:          internal.GenerateRecordID(source, now),
		Source:      source,
		Translation: result,
		Target:      req.Target.Code(),
		Mode:        req.Mode.String(),
		CreatedAt:   now,
	}

	if err := o.config.Recorder.Record(ctx, entry); err != nil {
		log.WithError(err).Warn("failed to record translation history")
	}
}

// finish runs on the interactive thread
func (o *Orchestrator) finish(task *Task, outcome Outcome) {
	task.outcome = outcome
	defer close(task.done)
	defer o.setState(Idle)

	if outcome.Err != nil {
		log.WithError(outcome.Err).WithField("kind", outcome.Kind().String()).Error("translation failed")
		o.setState(Failed)
	} else {
		o.setState(Success)
	}

	if o.config.OnFinish != nil {
		o.config.OnFinish(outcome)
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.notify(s)
}

func (o *Orchestrator) notify(s State) {
	if o.config.OnStateChange != nil {
		o.config.OnStateChange(s)
	}
}
