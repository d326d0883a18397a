package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/uiloop"
)

var (
	// ErrEmptyDraft rejects a submit with no text.
	ErrEmptyDraft = errors.New("draft is empty")
	// ErrSubmitInFlight rejects a submit while another one awaits its ack.
	ErrSubmitInFlight = errors.New("submit already in flight")
)

// State of the composer.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DraftPolicy decides what happens to the draft when a save fails.
type DraftPolicy int

const (
	// DraftDiscard clears the draft after a failed save.
	DraftDiscard DraftPolicy = iota
	// DraftPreserve keeps the draft so the user can resend it.
	DraftPreserve
)

// ParseDraftPolicy accepts "discard" or "preserve".
func ParseDraftPolicy(s string) (DraftPolicy, error) {
	switch s {
	case "discard", "":
		return DraftDiscard, nil
	case "preserve":
		return DraftPreserve, nil
	default:
		return DraftDiscard, fmt.Errorf("unknown draft policy %q", s)
	}
}

// ComposerState is the snapshot handed to the renderer.
type ComposerState struct {
	State         State
	Draft         string
	Editing       bool
	InputEnabled  bool
	SubmitEnabled bool
	DockHeight    float64
	DockAnimating bool
	LastError     error
}

// Composer owns the draft and the submit round trip. All methods run on the UI loop.
type Composer struct {
	store    MessageStore
	loop     *uiloop.Loop
	list     *ListController
	dock     *Dock
	table    string
	policy   DraftPolicy
	renderer Renderer
	log      *slog.Logger

	state         State
	draft         string
	editing       bool
	inputEnabled  bool
	submitEnabled bool
	lastErr       error
}

// NewComposer creates an idle composer with the submit control disabled.
func NewComposer(s MessageStore, loop *uiloop.Loop, list *ListController, dock *Dock, table string, policy DraftPolicy, r Renderer, log *slog.Logger) *Composer {
	if r == nil {
		r = nopRenderer{}
	}
	return &Composer{
		store:        s,
		loop:         loop,
		list:         list,
		dock:         dock,
		table:        table,
		policy:       policy,
		renderer:     r,
		log:          log,
		state:        Idle,
		inputEnabled: true,
	}
}

// BeginEdit is called when focus enters the input. Ignored while a save is in flight.
func (c *Composer) BeginEdit() {
	if c.locked() {
		return
	}
	c.editing = true
	c.submitEnabled = true
	c.dock.Expand()
	c.notify()
}

// EndEdit is called when focus leaves the input.
func (c *Composer) EndEdit() {
	c.editing = false
	c.dock.Collapse()
	c.notify()
}

// SetDraft records the text typed so far. Ignored while a save is in flight.
func (c *Composer) SetDraft(text string) {
	if c.locked() {
		return
	}
	c.draft = text
	c.notify()
}

// Submit saves text to the store. Empty text and a submit while another is in
// flight are rejected without side effects. done, if not nil, runs on the loop
// once the store acknowledged, with the *domain.StoreError on failure.
func (c *Composer) Submit(ctx context.Context, text string, done func(error)) error {
	if c.state == Submitting {
		return ErrSubmitInFlight
	}
	if text == "" {
		return ErrEmptyDraft
	}

	c.draft = text
	c.state = Submitting
	c.inputEnabled = false
	c.submitEnabled = false
	c.editing = false
	c.dock.Collapse()
	c.notify()

	fields := domain.Fields{Text: domain.SomeText(text)}
	go func() {
		_, err := c.store.Create(ctx, c.table, fields)
		if perr := c.loop.Post(func() { c.ack(ctx, err, done) }); perr != nil {
			c.log.Debug("Save ack dropped", "error", perr)
		}
	}()
	return nil
}

// State returns a snapshot of the composer.
func (c *Composer) State() ComposerState {
	return ComposerState{
		State:         c.state,
		Draft:         c.draft,
		Editing:       c.editing,
		InputEnabled:  c.inputEnabled,
		SubmitEnabled: c.submitEnabled,
		DockHeight:    c.dock.Target(),
		DockAnimating: c.dock.Animating(),
		LastError:     c.lastErr,
	}
}

// DisableSubmit turns the submit control off until the next BeginEdit.
func (c *Composer) DisableSubmit() {
	c.submitEnabled = false
	c.notify()
}

func (c *Composer) ack(ctx context.Context, err error, done func(error)) {
	c.state = Idle
	c.inputEnabled = true

	var ackErr error
	if err != nil {
		se := &domain.StoreError{Table: c.table, Err: err}
		c.log.Error("Message not saved", "table", c.table, "error", err)
		c.lastErr = se
		if c.policy == DraftDiscard {
			c.draft = ""
		}
		ackErr = se
	} else {
		c.log.Info("Message saved", "table", c.table)
		c.lastErr = nil
		c.draft = ""
		c.list.RefreshAsync(ctx, nil)
	}
	c.notify()

	if done != nil {
		done(ackErr)
	}
}

// locked reports whether the input is disabled by a pending save.
func (c *Composer) locked() bool {
	return c.state == Submitting || !c.inputEnabled
}

func (c *Composer) notify() {
	c.renderer.RenderComposer(c.State())
}
