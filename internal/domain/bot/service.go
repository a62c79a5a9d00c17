package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"jan-server/services/voicebot-api/internal/domain/retry"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

const (
	maxNameLength          = 120
	maxFailureReasonLength = 500
	resultWriteTimeout     = 10 * time.Second
	statusReadTimeout      = 5 * time.Second

	defaultWelcomeMessage = "Hi! How can I help you today?"
	defaultSystemPrompt   = "You are a helpful voice assistant embedded on a website. Keep answers short and conversational."
)

// Service describes the bot lifecycle operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Bot, error)
	Get(ctx context.Context, ownerID, botUUID string) (*Bot, error)
	List(ctx context.Context, ownerID string) ([]*Bot, error)
	Delete(ctx context.Context, ownerID, botUUID string) error
	Activate(ctx context.Context, ownerID, botUUID string) (*Bot, error)
	Deactivate(ctx context.Context, ownerID, botUUID string) (*Bot, error)
	SetAssistantReference(ctx context.Context, ownerID, botUUID, ref string) (*Bot, error)
	ResolveStatus(ctx context.Context, botUUID string) (*StatusResolution, error)
	ActivateDue(ctx context.Context, limit int) (int, error)
	ExecuteActivation(ctx context.Context, botUUID string) (ActivationResult, error)
}

// ServiceConfig carries lifecycle tunables.
type ServiceConfig struct {
	PublicBaseURL   string
	ActivationDelay time.Duration
	ProvisionPolicy retry.Policy
}

// Option customises the service.
type Option func(*service)

// WithKnowledgeSource enables knowledge base injection for RAG enabled bots.
func WithKnowledgeSource(source KnowledgeSource) Option {
	return func(s *service) {
		if source != nil {
			s.knowledge = source
		}
	}
}

// WithStatusCache caches usable bots for the public status endpoint.
func WithStatusCache(cache StatusCache) Option {
	return func(s *service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo        Repository
	provisioner Provisioner
	queue       ActivationQueue
	knowledge   KnowledgeSource
	cache       StatusCache
	cfg         ServiceConfig
	now         func() time.Time
	group       singleflight.Group
	log         zerolog.Logger
}

// NewService wires the bot service with its collaborators.
func NewService(repo Repository, provisioner Provisioner, queue ActivationQueue, cfg ServiceConfig, log zerolog.Logger, opts ...Option) Service {
	s := &service{
		repo:        repo,
		provisioner: provisioner,
		queue:       queue,
		cache:       noopCache{},
		cfg:         cfg,
		now:         time.Now,
		log:         log.With().Str("component", "bot-service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Bot, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "name is required", nil, "3f0c9a52-7d1e-4b8a-9c62-1a5e0b7d4f21")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "name is too long", nil, "b7e2d4c1-0a9f-4e3b-8d5c-6f1a2b3c4d5e")
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "owner is required", nil, "c1d8e6f2-5b4a-4c3d-9e8f-7a6b5c4d3e2f")
	}

	welcome := strings.TrimSpace(params.WelcomeMessage)
	if welcome == "" {
		welcome = defaultWelcomeMessage
	}
	prompt := strings.TrimSpace(params.SystemPrompt)
	if prompt == "" {
		prompt = defaultSystemPrompt
	}

	now := s.now().UTC()
	embedCfg := params.EmbedConfig.Normalize()
	id := uuid.NewString()

	b := &Bot{
		UUID:                  id,
		OwnerID:               params.OwnerID,
		Name:                  name,
		WelcomeMessage:        welcome,
		SystemPrompt:          prompt,
		Voice:                 ParseVoice(params.Voice),
		RAGEnabled:            params.RAGEnabled,
		Status:                StatusPending,
		ActivationScheduledAt: now.Add(s.cfg.ActivationDelay),
		EmbedConfig:           embedCfg,
		EmbedCode:             BuildEmbedCode(s.cfg.PublicBaseURL, id, embedCfg),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create bot")
	}

	s.log.Info().
		Str("bot_uuid", b.UUID).
		Str("owner_id", b.OwnerID).
		Time("activation_scheduled_at", b.ActivationScheduledAt).
		Msg("bot created")
	return b, nil
}

func (s *service) Get(ctx context.Context, ownerID, botUUID string) (*Bot, error) {
	if err := CheckUUID(ctx, botUUID); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByUUID(ctx, botUUID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "bot not found", nil, "8a4f2e6d-1c3b-4a5e-9f7d-2b8c6e4a1d3f")
	}
	return b, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Bot, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Delete(ctx context.Context, ownerID, botUUID string) error {
	if _, err := s.Get(ctx, ownerID, botUUID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, botUUID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, botUUID)
	s.log.Info().Str("bot_uuid", botUUID).Msg("bot deleted")
	return nil
}

// Activate is the owner initiated transition. Pending bots start provisioning early
// and failed bots are retried; activating and active bots are returned unchanged.
func (s *service) Activate(ctx context.Context, ownerID, botUUID string) (*Bot, error) {
	b, err := s.Get(ctx, ownerID, botUUID)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if !from.CanTransitionTo(StatusActivating) {
		return b, nil
	}

	won, err := s.repo.CompareAndSetStatus(ctx, botUUID, from, StatusActivating)
	if err != nil {
		return nil, err
	}
	if won {
		s.log.Info().Str("bot_uuid", botUUID).Str("from", from.String()).Msg("manual activation")
		s.dispatch(ctx, botUUID)
	}
	return s.repo.GetByUUID(ctx, botUUID)
}

func (s *service) Deactivate(ctx context.Context, ownerID, botUUID string) (*Bot, error) {
	b, err := s.Get(ctx, ownerID, botUUID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(StatusPending) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "only active bots can be deactivated", ErrInvalidTransition, "d2e4f6a8-3b5c-4d7e-8f9a-1b2c3d4e5f6a")
	}

	applied, err := s.repo.Deactivate(ctx, botUUID, s.now().UTC().Add(s.cfg.ActivationDelay))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, botUUID)
	if !applied {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "bot status changed concurrently", ErrInvalidTransition, "e5f7a9b1-4c6d-4e8f-9a0b-2c3d4e5f6a7b")
	}

	s.log.Info().Str("bot_uuid", botUUID).Msg("bot deactivated")
	return s.repo.GetByUUID(ctx, botUUID)
}

func (s *service) SetAssistantReference(ctx context.Context, ownerID, botUUID, ref string) (*Bot, error) {
	if _, err := s.Get(ctx, ownerID, botUUID); err != nil {
		return nil, err
	}

	var value *string
	if trimmed := strings.TrimSpace(ref); trimmed != "" {
		value = &trimmed
	}
	if err := s.repo.SetAssistantReference(ctx, botUUID, value); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, botUUID)
	return s.repo.GetByUUID(ctx, botUUID)
}

// ResolveStatus answers the public status read, performing the lazy pending to
// activating transition once the scheduled instant has passed.
func (s *service) ResolveStatus(ctx context.Context, botUUID string) (*StatusResolution, error) {
	if err := CheckUUID(ctx, botUUID); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(ctx, botUUID); ok {
		return &StatusResolution{Bot: cached, Cached: true}, nil
	}

	// The shared read outlives any one caller; only the caller that ran it
	// reports the activation it triggered.
	leader := false
	v, err, _ := s.group.Do(botUUID, func() (interface{}, error) {
		leader = true
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusReadTimeout)
		defer cancel()
		return s.resolveStatus(readCtx, botUUID)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*StatusResolution)
	copied := *res.Bot
	return &StatusResolution{Bot: &copied, Triggered: res.Triggered && leader}, nil
}

func (s *service) resolveStatus(ctx context.Context, botUUID string) (*StatusResolution, error) {
	b, err := s.repo.GetByUUID(ctx, botUUID)
	if err != nil {
		return nil, err
	}

	if b.Status == StatusPending && b.IsDue(s.now()) {
		won, err := s.repo.CompareAndSetStatus(ctx, botUUID, StatusPending, StatusActivating)
		if err != nil {
			return nil, err
		}
		if won {
			s.log.Info().Str("bot_uuid", botUUID).Msg("scheduled activation reached, provisioning")
			b.Status = StatusActivating
			b.FailureReason = nil
			s.dispatch(ctx, botUUID)
			return &StatusResolution{Bot: b, Triggered: true}, nil
		}
		if b, err = s.repo.GetByUUID(ctx, botUUID); err != nil {
			return nil, err
		}
	}

	if b.IsUsable() {
		s.cache.Set(ctx, b)
	}
	return &StatusResolution{Bot: b}, nil
}

// ActivateDue promotes due pending bots that nobody has polled yet.
func (s *service) ActivateDue(ctx context.Context, limit int) (int, error) {
	due, err := s.repo.ListDue(ctx, s.now(), limit)
	if err != nil {
		return 0, err
	}

	started := 0
	for _, b := range due {
		won, err := s.repo.CompareAndSetStatus(ctx, b.UUID, StatusPending, StatusActivating)
		if err != nil {
			s.log.Error().Err(err).Str("bot_uuid", b.UUID).Msg("sweep compare-and-set failed")
			continue
		}
		if !won {
			continue
		}
		s.dispatch(ctx, b.UUID)
		started++
	}
	return started, nil
}

// ExecuteActivation provisions the assistant and records the outcome. It is the
// continuation run by the activation worker for every dispatched task.
// Every path out of it leaves the bot in active or failed, so an owner can
// always retry.
func (s *service) ExecuteActivation(ctx context.Context, botUUID string) (result ActivationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("bot_uuid", botUUID).Msg("activation panicked")
			result = Failed("activation failed unexpectedly")
			err = fmt.Errorf("activation panicked: %v", r)
			s.recordFailure(ctx, botUUID, result)
		}
	}()

	b, err := s.repo.GetByUUID(ctx, botUUID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return ActivationResult{}, err
		}
		result = Failed("bot could not be loaded for activation")
		s.recordFailure(ctx, botUUID, result)
		return result, err
	}
	if b.Status != StatusActivating {
		s.log.Warn().Str("bot_uuid", botUUID).Str("status", b.Status.String()).Msg("activation superseded, skipping")
		return ActivationResult{Status: b.Status}, nil
	}

	knowledge := ""
	if b.RAGEnabled && s.knowledge != nil {
		if knowledge, err = s.knowledge.KnowledgeBase(ctx, botUUID); err != nil {
			s.log.Warn().Err(err).Str("bot_uuid", botUUID).Msg("knowledge base unavailable, provisioning without it")
			knowledge = ""
		}
	}

	ref, provisionErr := retry.ExecuteWithResult(ctx, s.cfg.ProvisionPolicy, func(ctx context.Context, attempt int) (string, error) {
		if attempt > 0 {
			s.log.Warn().Str("bot_uuid", botUUID).Int("attempt", attempt).Msg("retrying assistant provisioning")
		}
		return s.provisioner.Provision(ctx, b, knowledge)
	})

	if provisionErr != nil {
		result = Failed(truncate(provisionErr.Error(), maxFailureReasonLength))
	} else {
		result = Succeeded(ref, s.now())
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resultWriteTimeout)
	defer cancel()

	applied, err := s.repo.SetActivationResult(writeCtx, botUUID, result)
	s.cache.Invalidate(writeCtx, botUUID)
	if err != nil {
		return result, err
	}
	if !applied {
		s.log.Warn().Str("bot_uuid", botUUID).Msg("bot left activating state before provisioning finished, result discarded")
	} else {
		s.log.Info().Str("bot_uuid", botUUID).Str("status", result.Status.String()).Msg("activation finished")
	}
	return result, provisionErr
}

// dispatch enqueues provisioning without waiting for it. A rejected task marks
// the bot failed so the owner can retry.
func (s *service) dispatch(ctx context.Context, botUUID string) {
	task := NewActivationTask(botUUID)
	err := s.queue.Enqueue(task)
	if err == nil {
		return
	}

	reason := "activation could not be scheduled"
	if errors.Is(err, ErrQueueFull) {
		reason = "activation queue is full, retry later"
	}
	s.log.Error().Err(err).Str("bot_uuid", botUUID).Msg("enqueue activation")

	result := Failed(reason)
	s.recordFailure(ctx, botUUID, result)
	task.Complete(result, err)
}

// recordFailure moves an activating bot to failed on a context that outlives
// the caller. The write is conditional, so a result already recorded wins.
func (s *service) recordFailure(ctx context.Context, botUUID string, result ActivationResult) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resultWriteTimeout)
	defer cancel()

	if _, err := s.repo.SetActivationResult(writeCtx, botUUID, result); err != nil {
		s.log.Error().Err(err).Str("bot_uuid", botUUID).Msg("record activation failure")
		return
	}
	s.cache.Invalidate(writeCtx, botUUID)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
