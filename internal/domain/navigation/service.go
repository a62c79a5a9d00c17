package navigation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/voicecommand"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
	"jan-server/services/voicebot-api/internal/utils/sanitizer"
)

const (
	maxURLLength     = 2048
	maxCommandLength = 1000
	maxOriginLength  = 512
	defaultListLimit = 100
)

// Service records and lists navigation events.
type Service struct {
	repo      Repository
	bots      bot.Repository
	parser    *voicecommand.Parser
	sanitizer *sanitizer.Sanitizer
	listLimit int
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates the navigation service. Bot ownership is checked against the
// bot store directly.
func NewService(repo Repository, bots bot.Repository, parser *voicecommand.Parser, s *sanitizer.Sanitizer, listLimit int, log zerolog.Logger) *Service {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	if parser == nil {
		parser = voicecommand.NewParser(nil)
	}
	if s == nil {
		s = sanitizer.New(sanitizer.LevelHashed)
	}
	return &Service{
		repo:      repo,
		bots:      bots,
		parser:    parser,
		sanitizer: s,
		listLimit: listLimit,
		now:       time.Now,
		log:       log.With().Str("component", "navigation-service").Logger(),
	}
}

// Record validates and stores a navigation report. The intent is classified from the
// raw transcript before it is sanitized.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Event, error) {
	rawURL := strings.TrimSpace(params.URL)
	if rawURL == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "url is required", nil, "5d1f3b7a-9c2e-4a6b-8d0f-2e4a6c8b0d13")
	}
	if len(rawURL) > maxURLLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "url is too long", nil, "7f3b5d9c-1e4a-4c8d-9f2b-4a6c8e0d2f35")
	}

	botUUID := strings.TrimSpace(params.BotUUID)
	if botUUID != "" {
		if err := bot.CheckUUID(ctx, botUUID); err != nil {
			return nil, err
		}
		if _, err := s.bots.GetByUUID(ctx, botUUID); err != nil {
			return nil, err
		}
	}

	command := strings.TrimSpace(params.Command)
	intent := voicecommand.KindNone
	switch {
	case command == "" || command == CommandNavigate:
		command = CommandNavigate
	default:
		intent = s.parser.Classify(command)
		command = truncate(s.sanitizer.Transcript(command, botUUID), maxCommandLength)
	}

	metadata := map[string]any{}
	if params.UserAgent != "" {
		metadata["user_agent"] = truncate(params.UserAgent, 256)
	}
	if params.RequestID != "" {
		metadata["request_id"] = params.RequestID
	}

	event := &Event{
		BotUUID:   botUUID,
		URL:       rawURL,
		Command:   command,
		Success:   params.Success,
		Intent:    string(intent),
		Origin:    truncate(strings.TrimSpace(params.Origin), maxOriginLength),
		Metadata:  metadata,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record navigation event")
	}

	s.log.Debug().
		Str("bot_uuid", botUUID).
		Str("intent", event.Intent).
		Bool("success", event.Success).
		Msg("navigation event recorded")
	return event, nil
}

// List returns the most recent events of a bot owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID, botUUID string, limit int) ([]*Event, error) {
	if err := bot.CheckUUID(ctx, botUUID); err != nil {
		return nil, err
	}
	b, err := s.bots.GetByUUID(ctx, botUUID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "bot not found", nil, "9b5d7f1e-3a6c-4e0f-8b4d-6c8e0a2f4b57")
	}
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	return s.repo.ListByBot(ctx, botUUID, limit)
}

func truncate(v string, max int) string {
	if utf8.RuneCountInString(v) <= max {
		return v
	}
	return string([]rune(v)[:max])
}
