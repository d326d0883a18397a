package board

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/mocks"
	"github.com/devaloi/msgboard/internal/uiloop"
)

type composerFixture struct {
	store    *mocks.MockMessageStore
	loop     *uiloop.Loop
	list     *ListController
	composer *Composer
	renderer *recordingRenderer
}

func newComposerFixture(t *testing.T, policy DraftPolicy) composerFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store := mocks.NewMockMessageStore(gomock.NewController(t))
	loop := newTestLoop(t)
	r := &recordingRenderer{}
	list := NewListController(store, loop, domain.MessageTable, r, log)
	return composerFixture{
		store:    store,
		loop:     loop,
		list:     list,
		composer: NewComposer(store, loop, list, NewDock(nil), domain.MessageTable, policy, r, log),
		renderer: r,
	}
}

// submit calls Submit on the loop and returns the ack channel and the immediate result.
func (f composerFixture) submit(t *testing.T, text string) (chan error, error) {
	t.Helper()
	acked := make(chan error, 1)
	var err error
	require.NoError(t, f.loop.Do(func() {
		err = f.composer.Submit(context.Background(), text, func(ackErr error) { acked <- ackErr })
	}))
	return acked, err
}

func (f composerFixture) state(t *testing.T) ComposerState {
	t.Helper()
	var s ComposerState
	require.NoError(t, f.loop.Do(func() { s = f.composer.State() }))
	return s
}

func waitAck(t *testing.T, acked chan error) error {
	t.Helper()
	select {
	case err := <-acked:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("no store ack")
		return nil
	}
}

func TestComposer_SubmitSuccessClearsDraftAndRefreshesOnce(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	refreshed := make(chan struct{})
	gomock.InOrder(
		f.store.EXPECT().
			Create(gomock.Any(), domain.MessageTable, domain.Fields{Text: domain.SomeText("hello")}).
			Return(domain.Record{ID: "m1", Text: domain.SomeText("hello")}, nil),
		f.store.EXPECT().
			QueryAll(gomock.Any(), domain.MessageTable).
			DoAndReturn(func(context.Context, string) ([]domain.Record, error) {
				close(refreshed)
				return []domain.Record{{ID: "m1", Text: domain.SomeText("hello")}}, nil
			}).
			Times(1),
	)

	acked, err := f.submit(t, "hello")
	req.NoError(err)
	req.NoError(waitAck(t, acked))

	s := f.state(t)
	req.Equal(Idle, s.State)
	req.Equal("", s.Draft)
	req.True(s.InputEnabled)
	req.NoError(s.LastError)

	<-refreshed
	req.Eventually(func() bool {
		n := 0
		_ = f.loop.Do(func() { n = f.list.Len() })
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestComposer_SubmitDisablesControls(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	release := make(chan struct{})
	f.store.EXPECT().
		Create(gomock.Any(), domain.MessageTable, gomock.Any()).
		DoAndReturn(func(context.Context, string, domain.Fields) (domain.Record, error) {
			<-release
			return domain.Record{}, errors.New("offline")
		})

	req.NoError(f.loop.Do(f.composer.BeginEdit))
	acked, err := f.submit(t, "hello")
	req.NoError(err)

	s := f.state(t)
	req.Equal(Submitting, s.State)
	req.False(s.InputEnabled)
	req.False(s.SubmitEnabled)
	req.False(s.Editing)
	req.Equal(CollapsedHeight, s.DockHeight)

	close(release)
	waitAck(t, acked)
}

func TestComposer_EmptySubmitIsNoop(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	req.NoError(f.loop.Do(func() { f.composer.SetDraft("typing") }))
	before := f.state(t)

	_, err := f.submit(t, "")
	req.ErrorIs(err, ErrEmptyDraft)
	req.Equal(before, f.state(t))
}

func TestComposer_SecondSubmitRejectedWhileSubmitting(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	release := make(chan struct{})
	f.store.EXPECT().
		Create(gomock.Any(), domain.MessageTable, gomock.Any()).
		DoAndReturn(func(context.Context, string, domain.Fields) (domain.Record, error) {
			<-release
			return domain.Record{}, errors.New("offline")
		}).
		Times(1)

	acked, err := f.submit(t, "first")
	req.NoError(err)

	_, err = f.submit(t, "second")
	req.ErrorIs(err, ErrSubmitInFlight)
	req.Equal("first", f.state(t).Draft)

	close(release)
	waitAck(t, acked)
	req.Equal(Idle, f.state(t).State)
}

func TestComposer_FailureDiscardsDraft(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	cause := errors.New("offline")
	f.store.EXPECT().Create(gomock.Any(), domain.MessageTable, gomock.Any()).Return(domain.Record{}, cause)

	acked, err := f.submit(t, "hello")
	req.NoError(err)

	ackErr := waitAck(t, acked)
	var se *domain.StoreError
	req.ErrorAs(ackErr, &se)
	req.ErrorIs(ackErr, cause)

	s := f.state(t)
	req.Equal(Idle, s.State)
	req.Equal("", s.Draft)
	req.True(s.InputEnabled)
	req.ErrorAs(s.LastError, &se)
}

func TestComposer_FailurePreservesDraft(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftPreserve)

	f.store.EXPECT().Create(gomock.Any(), domain.MessageTable, gomock.Any()).Return(domain.Record{}, errors.New("offline"))

	acked, err := f.submit(t, "hello")
	req.NoError(err)
	req.Error(waitAck(t, acked))

	s := f.state(t)
	req.Equal("hello", s.Draft)
	req.True(s.InputEnabled)
}

func TestComposer_BeginEndEdit(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftDiscard)

	req.NoError(f.loop.Do(f.composer.DisableSubmit))
	req.False(f.state(t).SubmitEnabled)

	req.NoError(f.loop.Do(f.composer.BeginEdit))
	s := f.state(t)
	req.True(s.Editing)
	req.True(s.SubmitEnabled)
	req.Equal(ExpandedHeight, s.DockHeight)

	req.NoError(f.loop.Do(f.composer.EndEdit))
	s = f.state(t)
	req.False(s.Editing)
	req.Equal(CollapsedHeight, s.DockHeight)

	var notified int
	req.NoError(f.loop.Do(func() { notified = len(f.renderer.states) }))
	req.Equal(3, notified)
}

func TestParseDraftPolicy(t *testing.T) {
	req := require.New(t)

	p, err := ParseDraftPolicy("preserve")
	req.NoError(err)
	req.Equal(DraftPreserve, p)

	p, err = ParseDraftPolicy("")
	req.NoError(err)
	req.Equal(DraftDiscard, p)

	_, err = ParseDraftPolicy("shred")
	req.Error(err)
}

func TestStateString(t *testing.T) {
	req := require.New(t)
	req.Equal("idle", Idle.String())
	req.Equal("submitting", Submitting.String())
}

func TestComposer_InputLockedWhileSubmitting(t *testing.T) {
	req := require.New(t)
	f := newComposerFixture(t, DraftPreserve)

	release := make(chan struct{})
	f.store.EXPECT().
		Create(gomock.Any(), domain.MessageTable, domain.Fields{Text: domain.SomeText("first")}).
		DoAndReturn(func(context.Context, string, domain.Fields) (domain.Record, error) {
			<-release
			return domain.Record{}, errors.New("offline")
		})

	req.NoError(f.loop.Do(f.composer.BeginEdit))
	req.NoError(f.loop.Do(func() { f.composer.SetDraft("first") }))
	acked, err := f.submit(t, "first")
	req.NoError(err)

	req.NoError(f.loop.Do(f.composer.BeginEdit))
	req.NoError(f.loop.Do(func() { f.composer.SetDraft("second") }))

	s := f.state(t)
	req.Equal(Submitting, s.State)
	req.False(s.SubmitEnabled)
	req.False(s.Editing)
	req.Equal("first", s.Draft)
	req.Equal(CollapsedHeight, s.DockHeight)

	close(release)
	req.Error(waitAck(t, acked))

	s = f.state(t)
	req.Equal("first", s.Draft)
	req.True(s.InputEnabled)

	req.NoError(f.loop.Do(func() { f.composer.SetDraft("edited") }))
	req.Equal("edited", f.state(t).Draft)
}

func TestComposer_StateReportsDockTransition(t *testing.T) {
	req := require.New(t)
	c := &fakeClock{base: time.Unix(0, 0)}
	loop := newTestLoop(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store := mocks.NewMockMessageStore(gomock.NewController(t))
	list := NewListController(store, loop, domain.MessageTable, nil, log)
	composer := NewComposer(store, loop, list, NewDock(c.now), domain.MessageTable, DraftDiscard, nil, log)

	var s ComposerState
	req.NoError(loop.Do(func() {
		composer.BeginEdit()
		s = composer.State()
	}))
	req.True(s.DockAnimating)

	req.NoError(loop.Do(func() {
		c.advance(DockTransition)
		s = composer.State()
	}))
	req.False(s.DockAnimating)
	req.Equal(ExpandedHeight, s.DockHeight)
}
