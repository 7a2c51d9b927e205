package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/mentor"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/signals"
)

var ErrEmptyMessage = errors.New("chat: empty message")

// GreetingID marks the synthetic opening message of a new session.
const GreetingID = "init"

// Ledger is the part of the progression ledger the chat flow touches directly.
// Signal rewards go through the Processor.
type Ledger interface {
	AddPoints(ctx context.Context, amount int) (model.UserStats, error)
	UpdateStreak(ctx context.Context) (model.UserStats, error)
}

// Reply is the result of one exchange with the mentor.
type Reply struct {
	SessionID string
	Messages  []model.Message
	Message   model.Message
	Notice    *signals.Notice
	// Failure is the mentor error behind an IsError message, kept for logging.
	Failure error
}

type Service struct {
	sessions  *Sessions
	mentor    mentor.Client
	ledger    Ledger
	processor *signals.Processor
	modelName string
	now       func() time.Time
	log       *logging.Logger
}

type ServiceOption func(*Service)

func WithModelName(name string) ServiceOption {
	return func(s *Service) { s.modelName = name }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *logging.Logger) ServiceOption {
	return func(s *Service) { s.log = logging.OrNop(log) }
}

func NewService(sessions *Sessions, client mentor.Client, ledger Ledger, processor *signals.Processor, opts ...ServiceOption) *Service {
	s := &Service{
		sessions:  sessions,
		mentor:    client,
		ledger:    ledger,
		processor: processor,
		modelName: mentor.DefaultModel,
		now:       time.Now,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Sessions() *Sessions { return s.sessions }

// Send appends text as a user turn of sessionID, asks the mentor and appends its answer.
// A failed mentor call still yields a model turn carrying the diagnostic text, so the
// returned error is only about validation or persistence.
func (s *Service) Send(ctx context.Context, sessionID string, history []model.Message, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	userMsg := model.Message{ID: uuid.NewString(), Role: model.RoleUser, Text: text, Timestamp: s.now()}
	messages := append(append([]model.Message(nil), history...), userMsg)
	if _, err := s.sessions.Save(ctx, sessionID, messages); err != nil {
		s.log.Warn("save user turn failed", "session", sessionID, "error", err)
	}
	if _, err := s.ledger.AddPoints(ctx, gamification.InteractionReward); err != nil {
		s.log.Warn("interaction reward failed", "error", err)
	}

	reply := Reply{SessionID: sessionID}
	botMsg := model.Message{ID: uuid.NewString(), Role: model.RoleModel}

	raw, err := s.mentor.SendMessage(ctx, history, text)
	if err != nil {
		s.log.Error("mentor call failed", "session", sessionID, "error", err)
		botMsg.Text = mentor.Diagnose(err, s.modelName)
		botMsg.IsError = true
		reply.Failure = err
	} else {
		outcome, perr := s.processor.Process(ctx, raw)
		if perr != nil {
			s.log.Warn("achievement signal not credited", "error", perr)
		}
		botMsg.Text = outcome.Text
		reply.Notice = outcome.Notice
	}
	botMsg.Timestamp = s.now()

	messages = append(messages, botMsg)
	reply.Messages = messages
	reply.Message = botMsg
	if _, err := s.sessions.Save(ctx, sessionID, messages); err != nil {
		return reply, fmt.Errorf("save reply: %w", err)
	}
	return reply, nil
}

// Open loads a session, or the greeting when it has never been saved. Opening a session
// counts as activity for the daily streak.
func (s *Service) Open(ctx context.Context, id string) ([]model.Message, error) {
	if _, err := s.ledger.UpdateStreak(ctx); err != nil {
		s.log.Warn("streak update failed", "error", err)
	}
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return []model.Message{s.Greeting()}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

func (s *Service) Greeting() model.Message {
	return model.Message{ID: GreetingID, Role: model.RoleModel, Text: mentor.InitialGreeting, Timestamp: s.now()}
}

// Resume picks the most recent session, or a fresh id when there is none.
func (s *Service) Resume(ctx context.Context) string {
	list, err := s.sessions.List(ctx)
	if err != nil || len(list) == 0 {
		return NewID()
	}
	return list[0].ID
}
