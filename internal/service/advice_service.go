package service

import (
	"context"
	"fmt"
	"strings"

	"fin-guardian/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const adviceInstruction = `You are a personal finance advisor. You receive a summary of one user's income and
expenses for a period, grouped by category. Reply with 1-3 short, concrete recommendations to
reduce spending or save more, most impactful first. Refer to the categories and amounts you were
given. Plain text only, no markdown, no introduction.`

// AdviceService asks GigaChat for spending advice.
type AdviceService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewAdviceService(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*AdviceService, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = adviceInstruction
	model.Temperature = 0.3

	return &AdviceService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *AdviceService) Advise(ctx context.Context, summary string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: summary},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate advice: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	advice := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.logger.Debug("Spending advice generated", zap.Int("length", len(advice)))
	return advice, nil
}

func (s *AdviceService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
