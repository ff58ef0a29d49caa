package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"github.com/PeterSayer/CottageChooser/pkg/sanitize"
)

var (
	ErrSummaryNotConfigured = errors.New("summary generation is not configured")
	ErrNoComments           = errors.New("no comments to summarize")
)

// SummaryService generates a balanced recap of the group's comments on
// a cottage and caches it on the cottage row.
type SummaryService interface {
	Generate(ctx context.Context, actor string, cottageID uint) (string, error)
}

type summaryService struct {
	cottageRepo repository.CottageRepository
	commentRepo repository.CommentRepository
	policy      *authz.Policy
	cfg         *config.OpenAIConfig
	httpClient  *http.Client
}

func NewSummaryService(
	cottageRepo repository.CottageRepository,
	commentRepo repository.CommentRepository,
	policy *authz.Policy,
	cfg *config.OpenAIConfig,
) SummaryService {
	return &summaryService{
		cottageRepo: cottageRepo,
		commentRepo: commentRepo,
		policy:      policy,
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *summaryService) Generate(ctx context.Context, actor string, cottageID uint) (string, error) {
	logger.Info("Generating comment summary", map[string]interface{}{
		"cottage_id": cottageID,
		"actor":      actor,
	})

	if !s.policy.Can(actor, authz.SummaryCreate, "") {
		logger.Warn("Summary generation denied", map[string]interface{}{
			"cottage_id": cottageID,
			"actor":      actor,
		})
		return "", ErrNotAllowed
	}

	if s.cfg.APIKey == "" {
		return "", ErrSummaryNotConfigured
	}

	cottage, err := s.cottageRepo.FindByID(cottageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCottageNotFound
		}
		return "", err
	}

	comments, err := s.commentRepo.FindByCottageID(cottageID)
	if err != nil {
		return "", err
	}
	if len(comments) == 0 {
		return "", ErrNoComments
	}

	var sb strings.Builder
	for _, comment := range comments {
		sb.WriteString(comment.Author)
		sb.WriteString(": ")
		sb.WriteString(comment.Text)
		sb.WriteString("\n")
	}

	prompt := fmt.Sprintf(
		"Please analyze these comments about the holiday cottage %q and create a short HTML summary. "+
			"Focus on common themes, highlights, and potential concerns. "+
			"Use only simple formatting tags (p, strong, em, ul, li, h3). "+
			"Comments:\n%s", cottage.Name, sb.String())

	var summary string
	raw, err := s.callOpenAI(ctx, prompt)
	if err != nil {
		// A flaky upstream must not surface as a server fault; the
		// stored placeholder tells the group to retry later.
		logger.Error("Failed to generate summary, storing placeholder", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		summary = "Error generating review summary. Please try again later."
	} else {
		// The model is asked for plain formatting but its output is
		// still untrusted markup.
		summary = sanitize.RichText(raw)
	}

	if err := s.cottageRepo.UpdateSummary(cottageID, summary); err != nil {
		return "", err
	}

	logger.Info("Comment summary generated successfully", map[string]interface{}{
		"cottage_id": cottageID,
		"comments":   len(comments),
	})
	return summary, nil
}

func (s *summaryService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	reqData := openAIRequest{
		Model: s.cfg.Model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: "You are a helpful assistant that analyzes holiday cottage comments and creates structured, balanced summaries.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.cfg.APIKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}
