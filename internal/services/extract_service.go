package services

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

	"go.uber.org/zap"

	"github.com/Gopher0727/InviteShare/config"
	logger "github.com/Gopher0727/InviteShare/middleware/log"
)

var (
	ErrTextEmpty     = errors.New("text is empty")
	ErrAIKeyMissing  = errors.New("ai api key not configured")
	ErrAIUpstream    = errors.New("ai upstream call failed")
	ErrAIBadResponse = errors.New("unexpected ai response format")
)

// extractPrompt 约束模型只输出换行分隔的邀请码
const extractPrompt = "请从下面的文本中提取邀请码，每个邀请码之后换行，只回复邀请码，不要回复其他内容：<%s>"

// TokenUsage 上游返回的 token 消耗统计，原样透传给前端
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ExtractResult 文本提取结果
type ExtractResult struct {
	ExtractedCodes string      `json:"extractedCodes"`
	Usage          *TokenUsage `json:"usage,omitempty"`
}

// ExtractService 调用大模型从自由文本里提取邀请码，无状态透传
type ExtractService struct {
	cfg    config.AIConfig
	client *http.Client
	logger *logger.Logger
}

func NewExtractService(cfg config.AIConfig, log *logger.Logger) *ExtractService {
	return &ExtractService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
	Usage *TokenUsage `json:"usage"`
}

// Extract 把自由文本交给上游模型，返回换行分隔的候选邀请码
func (s *ExtractService) Extract(ctx context.Context, text string) (*ExtractResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextEmpty
	}
	if s.cfg.APIKey == "" {
		return nil, ErrAIKeyMissing
	}

	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(extractPrompt, text)},
		},
		Stream:      false,
		MaxTokens:   256,
		Temperature: 0.1,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logError(ctx, "调用 AI 服务失败", zap.Error(err))
		return nil, ErrAIUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logError(ctx, "AI 服务返回非 200",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, ErrAIUpstream
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		s.logError(ctx, "解析 AI 响应失败", zap.Error(err))
		return nil, ErrAIBadResponse
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message == nil {
		return nil, ErrAIBadResponse
	}

	return &ExtractResult{
		ExtractedCodes: strings.TrimSpace(chatResp.Choices[0].Message.Content),
		Usage:          chatResp.Usage,
	}, nil
}

func (s *ExtractService) logError(ctx context.Context, msg string, fields ...zap.Field) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, fields...)
	}
}
