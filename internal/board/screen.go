package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/uiloop"
)

// Options tune a Screen.
type Options struct {
	Table       string
	DraftPolicy DraftPolicy
	// Now drives the dock animation. Defaults to time.Now.
	Now func() time.Time
}

// Screen is the message board: a list, a composer and its dock, all mutated on
// one UI loop. Its methods are safe to call from any goroutine except the loop.
type Screen struct {
	loop     *uiloop.Loop
	list     *ListController
	composer *Composer
	dock     *Dock
	log      *slog.Logger
}

// NewScreen wires a board on top of store. The loop must be running.
func NewScreen(s MessageStore, loop *uiloop.Loop, r Renderer, opts Options, log *slog.Logger) *Screen {
	if opts.Table == "" {
		opts.Table = domain.MessageTable
	}
	dock := NewDock(opts.Now)
	list := NewListController(s, loop, opts.Table, r, log)
	return &Screen{
		loop:     loop,
		list:     list,
		composer: NewComposer(s, loop, list, dock, opts.Table, opts.DraftPolicy, r, log),
		dock:     dock,
		log:      log,
	}
}

// Start disables submit until the user starts editing and loads the list.
func (s *Screen) Start(ctx context.Context) error {
	return s.loop.Post(func() {
		s.composer.DisableSubmit()
		s.list.RefreshAsync(ctx, nil)
	})
}

// FocusInput starts editing.
func (s *Screen) FocusInput() error {
	return s.loop.Post(s.composer.BeginEdit)
}

// BlurInput ends editing.
func (s *Screen) BlurInput() error {
	return s.loop.Post(s.composer.EndEdit)
}

// TapList ends editing, like tapping outside the input.
func (s *Screen) TapList() error {
	return s.loop.Post(s.composer.EndEdit)
}

// Type replaces the draft.
func (s *Screen) Type(text string) error {
	return s.loop.Post(func() { s.composer.SetDraft(text) })
}

// Submit sends text. done runs on the loop with the rejection or the ack result.
func (s *Screen) Submit(ctx context.Context, text string, done func(error)) error {
	return s.loop.Post(func() {
		if err := s.composer.Submit(ctx, text, done); err != nil {
			s.log.Debug("Submit rejected", "error", err)
			if done != nil {
				done(err)
			}
		}
	})
}

// Refresh reloads the list and waits for it to be applied.
func (s *Screen) Refresh(ctx context.Context) ([]domain.Message, error) {
	return s.list.Refresh(ctx)
}

// RefreshAsync reloads the list without waiting.
func (s *Screen) RefreshAsync(ctx context.Context) {
	s.list.RefreshAsync(ctx, nil)
}

// OnCreated returns a notification handler that reloads the list whenever
// another client creates a message.
func (s *Screen) OnCreated(ctx context.Context) func(domain.Record) {
	return func(rec domain.Record) {
		s.log.Debug("Remote create, refreshing", "id", rec.ID)
		s.list.RefreshAsync(ctx, nil)
	}
}

// Snapshot returns the list and composer state as seen on the loop.
func (s *Screen) Snapshot() ([]domain.Message, ComposerState, error) {
	var (
		items []domain.Message
		state ComposerState
	)
	err := s.loop.Do(func() {
		items = s.list.Items()
		state = s.composer.State()
	})
	return items, state, err
}

// DockHeight returns the current animated dock height.
func (s *Screen) DockHeight() (float64, error) {
	var h float64
	err := s.loop.Do(func() { h = s.dock.Height() })
	return h, err
}
