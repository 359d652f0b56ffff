package router

import (
	"conectin/app/client/whatsapp"
	"conectin/app/config"
	"conectin/app/model"
	"conectin/app/service/conversation"
	"conectin/app/service/intent"
	"conectin/app/util/mylog"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do"
)

type Transport interface {
	Send(ctx context.Context, chatID, text string) (string, error)
	Download(ctx context.Context, msg model.Message) (*model.Media, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (model.Category, error)
}

type EscalationDetector interface {
	NeedsHuman(ctx context.Context, text string) (bool, error)
}

type Responder interface {
	Complete(ctx context.Context, text string) (string, error)
}

type Deps struct {
	Transport  Transport
	Classifier Classifier
	Escalation EscalationDetector
	Responder  Responder
}

type Options struct {
	ReplyDelayMin   time.Duration
	ReplyDelayMax   time.Duration
	RearmOnActivity bool
	Farewell        bool
}

// Router turns every inbound message into zero or one reply.
type Router struct {
	ctx   context.Context
	store *conversation.Store
	deps  Deps
	opts  Options
	rules []rule

	now func() time.Time
}

func New(di *do.Injector) (*Router, error) {
	cfg := do.MustInvoke[*config.Config](di)
	intentSvc := do.MustInvoke[*intent.Service](di)

	return NewRouter(
		do.MustInvoke[context.Context](di),
		do.MustInvoke[*conversation.Store](di),
		Deps{
			Transport:  do.MustInvoke[*whatsapp.Client](di),
			Classifier: intentSvc,
			Escalation: intentSvc,
			Responder:  intentSvc,
		},
		Options{
			ReplyDelayMin:   cfg.Bot.ReplyDelayMin,
			ReplyDelayMax:   cfg.Bot.ReplyDelayMax,
			RearmOnActivity: cfg.Bot.RearmOnActivity,
			Farewell:        cfg.Bot.Farewell(),
		},
	), nil
}

// NewRouter builds a router and registers it as the store's expiry handler.
// ctx bounds the replies sent when a handoff expires.
func NewRouter(ctx context.Context, store *conversation.Store, deps Deps, opts Options) *Router {
	r := &Router{
		ctx:   ctx,
		store: store,
		deps:  deps,
		opts:  opts,
		rules: newRules(opts.Farewell),
		now:   time.Now,
	}

	store.SetExpiryHandler(r.onTakeoverExpired)

	return r
}

// Handle processes one inbound message to completion. Failures are reported to
// the customer with a generic apology and never escape.
func (r *Router) Handle(ctx context.Context, msg model.Message) {
	chatID := msg.ConversationID()
	logger := slog.With(
		slog.String("chat_id", chatID),
		slog.String("message_id", msg.ID),
		slog.String("trace_id", uuid.NewString()),
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Panic while handling message", slog.Any("panic", rec))
		}
	}()

	if msg.IsGroup || msg.From == model.StatusBroadcast || msg.To == model.StatusBroadcast {
		return
	}

	if msg.FromMe && r.store.IsBotEcho(chatID, msg.ID, msg.Body) {
		return
	}

	if isReactivationCommand(msg.Body) {
		if err := r.Reactivate(ctx, chatID); err != nil {
			logger.Error("Failed to reactivate bot", slog.Any("error", err))
		}
		return
	}

	// Operator messages from the support account are never debounced: each one
	// must reach its conversation to start the handoff.
	if !msg.FromMe && !r.store.Allow(chatID, r.now()) {
		logger.Debug("Message debounced")
		return
	}

	unlock := r.store.Lock(chatID)
	defer unlock()

	start := time.Now()
	if err := r.route(ctx, logger, chatID, msg); err != nil {
		logger.Error("Failed to handle message", slog.Any("error", err))
		r.apologize(ctx, logger, chatID)
		return
	}

	logger.Debug("Processed message", slog.Duration("duration", time.Since(start)))
}

func (r *Router) route(ctx context.Context, logger *slog.Logger, chatID string, msg model.Message) error {
	if msg.FromMe {
		if !r.store.MarkHuman(chatID) {
			return nil
		}

		logger.Info("Operator answered from the support account, conversation handed off",
			slog.Bool(mylog.TelegramKey, true))
		return r.reply(ctx, chatID, HandoffNoticeText)
	}

	if r.store.ObserveAuthor(chatID, msg.AuthorID()) {
		logger.Info("Third party joined the conversation, conversation handed off",
			slog.String("author", msg.AuthorID()),
			slog.Bool(mylog.TelegramKey, true))
		return r.reply(ctx, chatID, HandoffNoticeText)
	}

	if r.store.IsHuman(chatID) {
		if r.opts.RearmOnActivity {
			r.store.Rearm(chatID)
		}

		logger.Debug("Conversation is handled by a person")
		return nil
	}

	text := normalize(msg.Body)
	matched := matchRules(r.rules, text)

	if text != "" && (matched == nil || !matched.exact) {
		needsHuman, err := r.deps.Escalation.NeedsHuman(ctx, msg.Body)
		if err != nil {
			return fmt.Errorf("escalation check: %w", err)
		}

		if needsHuman {
			logger.Info("Escalation suggested")
			return r.reply(ctx, chatID, EscalationPromptText)
		}
	}

	if msg.HasMedia {
		media, err := r.deps.Transport.Download(ctx, msg)
		if err != nil {
			return fmt.Errorf("download media: %w", err)
		}

		if media.IsImage() {
			return r.reply(ctx, chatID, ImageAckText)
		}
	}

	if matched != nil {
		logger.Debug("Rule matched", slog.String("rule", matched.rule.name))

		if matched.rule.handoff && r.store.MarkHuman(chatID) {
			logger.Info("Customer asked for a person, conversation handed off",
				slog.Bool(mylog.TelegramKey, true))
		}

		return r.reply(ctx, chatID, matched.rule.reply)
	}

	if text == "" {
		return nil
	}

	category, err := r.deps.Classifier.Classify(ctx, msg.Body)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	logger.Debug("Message classified", slog.String("category", string(category)))

	switch category {
	case model.CategoryPaymentReceived:
		return r.reply(ctx, chatID, PaymentText)

	case model.CategoryNewClient:
		return r.reply(ctx, chatID, NewClientText)

	case model.CategoryServiceReport:
		if r.store.MarkHuman(chatID) {
			logger.Info("Service report received, conversation handed off",
				slog.Bool(mylog.TelegramKey, true))
		}
		return r.reply(ctx, chatID, ServiceReportText)

	case model.CategoryTechnicalIssue:
		wasHuman := r.store.IsHuman(chatID)
		answer := r.store.TechnicalReply(chatID, msg.Body)
		if !wasHuman && r.store.IsHuman(chatID) {
			logger.Info("Technical issue escalated, conversation handed off",
				slog.Bool(mylog.TelegramKey, true))
		}
		return r.reply(ctx, chatID, answer)
	}

	answer, err := r.deps.Responder.Complete(ctx, msg.Body)
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	return r.reply(ctx, chatID, answer)
}

// Reactivate returns the conversation to the bot and sends the reactivation
// menu, whether or not a handoff was active.
func (r *Router) Reactivate(ctx context.Context, chatID string) error {
	if r.store.ClearHuman(chatID) {
		slog.Info("Bot reactivated", slog.String("chat_id", chatID), slog.Bool(mylog.TelegramKey, true))
	}

	return r.reply(ctx, chatID, ReactivationText)
}

// Handoff puts the conversation in human-handled mode on behalf of an operator.
// The customer is told only when the conversation was bot-handled.
func (r *Router) Handoff(ctx context.Context, chatID string) (bool, error) {
	if !r.store.MarkHuman(chatID) {
		return false, nil
	}

	slog.Info("Operator took over the conversation", slog.String("chat_id", chatID), slog.Bool(mylog.TelegramKey, true))

	return true, r.reply(ctx, chatID, HandoffText)
}

func (r *Router) onTakeoverExpired(chatID string) {
	slog.Info("Handoff expired after inactivity", slog.String("chat_id", chatID), slog.Bool(mylog.TelegramKey, true))

	if err := r.reply(r.ctx, chatID, InactivityText); err != nil {
		slog.Error("Failed to send inactivity reactivation",
			slog.String("chat_id", chatID),
			slog.Any("error", err))
	}
}

func (r *Router) apologize(ctx context.Context, logger *slog.Logger, chatID string) {
	if err := r.reply(ctx, chatID, ApologyText); err != nil {
		logger.Warn("Failed to send apology", slog.Any("error", err))
	}
}

func (r *Router) reply(ctx context.Context, chatID, text string) error {
	if err := sleep(ctx, r.replyDelay()); err != nil {
		return err
	}

	done := r.store.TrackOutgoing(chatID, text)
	id, err := r.deps.Transport.Send(ctx, chatID, text)
	done(id)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	return nil
}

func (r *Router) replyDelay() time.Duration {
	spread := r.opts.ReplyDelayMax - r.opts.ReplyDelayMin
	if spread <= 0 {
		return r.opts.ReplyDelayMin
	}

	return r.opts.ReplyDelayMin + rand.N(spread)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
