package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/ai"
	"github.com/topito/bot-admin/services/sender"
	"github.com/topito/bot-admin/services/store"
	"github.com/topito/bot-admin/services/telegram"
)

type fakeStore struct {
	cfg store.BotConfig
	err error
}

func (f *fakeStore) GetConfig(ctx context.Context, botID string) (store.BotConfig, error) {
	return f.cfg, f.err
}

type fakeDispatcher struct {
	sent    []sender.Message
	acks    []string
	sendErr error
}

func (f *fakeDispatcher) Send(ctx context.Context, botID string, msg sender.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeDispatcher) Acknowledge(ctx context.Context, botID string, callbackQueryID string) {
	f.acks = append(f.acks, callbackQueryID)
}

type fakeCompleter struct {
	configured bool
	text       string
	err        error
	calls      int
	lastReq    ai.CompletionRequest
}

func (f *fakeCompleter) Configured() bool {
	return f.configured
}

func (f *fakeCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.text, f.err
}

func testConfig() store.BotConfig {
	return store.BotConfig{
		Commands: []store.Command{
			{
				ID:       "c1",
				Command:  "/start",
				Response: "Hi!",
				Buttons: []store.Button{
					{ID: "b1", Label: "Help", Kind: store.ButtonKindCommand, Value: "/help"},
				},
			},
			{
				ID:       "c2",
				Command:  "/help",
				Response: "Docs here",
			},
		},
		QuickReplies: []store.QuickReply{
			{ID: "q1", Title: "Help", Keyword: "help", Response: "Quick help"},
			{ID: "q2", Title: "Hours", Keyword: "hours", Response: "We open at nine"},
		},
		Settings: store.Settings{
			DefaultResponse: "Default answer",
			AIModel:         "gpt-4o-mini",
			AITemperature:   0.2,
		},
	}
}

func message(text string) *telegram.Update {
	return &telegram.Update{
		Message: &telegram.Message{
			Chat: &telegram.Chat{ID: 42},
			Text: text,
		},
	}
}

func callback(id, data string) *telegram.Update {
	return &telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:      id,
			Data:    data,
			Message: &telegram.Message{Chat: &telegram.Chat{ID: 42}},
		},
	}
}

func newTestRouter(cfg store.BotConfig, dispatcher *fakeDispatcher, completer *fakeCompleter) *Router {
	return New(&fakeStore{cfg: cfg}, dispatcher, completer, zap.NewNop())
}

func TestHandleMessageExactCommandMatch(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("/START"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, int64(42), d.sent[0].ChatID)
	assert.Equal(t, "Hi!", d.sent[0].Text)
	require.Len(t, d.sent[0].Buttons, 1)
	assert.Equal(t, "Help", d.sent[0].Buttons[0].Label)
}

func TestHandleMessageNormalizesWhitespace(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("   /Help \n"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "Docs here", d.sent[0].Text)
}

func TestHandleMessageCommandBeatsQuickReply(t *testing.T) {
	// /help is both a command and contains the quick-reply keyword "help":
	// the exact command match must win.
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("/help"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "Docs here", d.sent[0].Text)
}

func TestHandleMessageButtonValueMatch(t *testing.T) {
	cfg := testConfig()
	cfg.Commands[0].Buttons[0].Value = "open docs"
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("Open Docs"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "Hi!", d.sent[0].Text)
}

func TestHandleMessageButtonLabelFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Commands[0].Buttons[0].Value = ""
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("help"))
	require.NoError(t, err)

	// the button label "Help" matches before the quick-reply keyword
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Hi!", d.sent[0].Text)
}

func TestHandleMessageQuickReplySubstring(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("what are your HOURS please"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "We open at nine", d.sent[0].Text)
	assert.Empty(t, d.sent[0].Buttons)
}

func TestHandleMessageQuickReplyFirstMatchWins(t *testing.T) {
	cfg := testConfig()
	cfg.Commands = nil
	cfg.QuickReplies = []store.QuickReply{
		{ID: "q1", Keyword: "order", Response: "first"},
		{ID: "q2", Keyword: "order", Response: "second"},
	}
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("my order"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "first", d.sent[0].Text)
}

func TestHandleMessageAIFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.AIEnabled = true
	cfg.Settings.AIPersona = "friendly"
	completer := &fakeCompleter{configured: true, text: "generated"}
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, completer)

	err := r.HandleUpdate(context.Background(), "bot", message("Something Unmatched"))
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls)
	// the AI receives the original text, not the normalized text
	assert.Equal(t, "Something Unmatched", completer.lastReq.Prompt)
	assert.Equal(t, "friendly", completer.lastReq.Persona)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "generated", d.sent[0].Text)
	assert.Empty(t, d.sent[0].Buttons)
}

func TestHandleMessageAIDisabledSkipsCompleter(t *testing.T) {
	completer := &fakeCompleter{configured: true, text: "generated"}
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, completer)

	err := r.HandleUpdate(context.Background(), "bot", message("nothing matches this"))
	require.NoError(t, err)

	assert.Zero(t, completer.calls)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Default answer", d.sent[0].Text)
}

func TestHandleMessageAIUnconfiguredFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.AIEnabled = true
	completer := &fakeCompleter{configured: false}
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, completer)

	err := r.HandleUpdate(context.Background(), "bot", message("nothing matches this"))
	require.NoError(t, err)

	assert.Zero(t, completer.calls)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Default answer", d.sent[0].Text)
}

func TestHandleMessageAIFailureFallsThroughToDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.AIEnabled = true
	completer := &fakeCompleter{configured: true, err: errors.New("upstream down")}
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, completer)

	err := r.HandleUpdate(context.Background(), "bot", message("nothing matches this"))
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Default answer", d.sent[0].Text)
}

func TestHandleMessageNoDefaultIsNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.DefaultResponse = ""
	d := &fakeDispatcher{}
	r := newTestRouter(cfg, d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", message("nothing matches this"))
	require.NoError(t, err)
	assert.Empty(t, d.sent)
}

func TestHandleMessageEmptyTextIsNoOp(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	require.NoError(t, r.HandleUpdate(context.Background(), "bot", message("   \t  ")))
	assert.Empty(t, d.sent)
}

func TestHandleUpdateEmptyUpdateIsNoOp(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	require.NoError(t, r.HandleUpdate(context.Background(), "bot", &telegram.Update{}))
	require.NoError(t, r.HandleUpdate(context.Background(), "bot", nil))
	assert.Empty(t, d.sent)
	assert.Empty(t, d.acks)
}

func TestHandleCallbackMatchesButtonValue(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", callback("cb1", "/help"))
	require.NoError(t, err)

	// "/help" is both command c2's text and command c1's button value;
	// first found in list order wins, which is c1's button.
	require.Len(t, d.sent, 1)
	assert.Equal(t, "Hi!", d.sent[0].Text)
	assert.Equal(t, []string{"cb1"}, d.acks)
}

func TestHandleCallbackMatchesCommandText(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", callback("cb2", "/START"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, "Hi!", d.sent[0].Text)
	assert.Equal(t, []string{"cb2"}, d.acks)
}

func TestHandleCallbackNoMatchStillAcknowledges(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", callback("cb3", "/unknown"))
	require.NoError(t, err)

	assert.Empty(t, d.sent)
	assert.Equal(t, []string{"cb3"}, d.acks)
}

func TestHandleCallbackDispatchFailureStillAcknowledges(t *testing.T) {
	d := &fakeDispatcher{sendErr: errors.New("boom")}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	err := r.HandleUpdate(context.Background(), "bot", callback("cb4", "/start"))
	require.Error(t, err)

	assert.Equal(t, []string{"cb4"}, d.acks)
}

func TestHandleCallbackWithoutChatOnlyAcknowledges(t *testing.T) {
	d := &fakeDispatcher{}
	r := newTestRouter(testConfig(), d, &fakeCompleter{})

	update := &telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{ID: "cb5", Data: "/start"},
	}
	require.NoError(t, r.HandleUpdate(context.Background(), "bot", update))

	assert.Empty(t, d.sent)
	assert.Equal(t, []string{"cb5"}, d.acks)
}

func TestHandleUpdateStoreFailurePropagatesForLogging(t *testing.T) {
	d := &fakeDispatcher{}
	r := New(&fakeStore{err: errors.New("store down")}, d, &fakeCompleter{}, zap.NewNop())

	err := r.HandleUpdate(context.Background(), "bot", message("/start"))
	require.Error(t, err)
	assert.Empty(t, d.sent)
}
