package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hootool/internal/config"
	"hootool/internal/logger"

	"go.uber.org/zap"
)

const deepSeekTestPrompt = "你好，请用一句话介绍你自己。"

var ErrDeepSeekNotConfigured = errors.New("deepseek api key is not configured")

// UpstreamError: апстрим ответил не-2xx.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("deepseek upstream status %d", e.Status)
}

type DeepSeekClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewDeepSeekClient(cfg *config.Config) *DeepSeekClient {
	return &DeepSeekClient{
		apiKey:  cfg.DeepSeekAPIKey,
		baseURL: cfg.DeepSeekBaseURL,
		model:   cfg.DeepSeekModel,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// TestCompletion отправляет фиксированный промпт и возвращает сырой JSON апстрима.
func (c *DeepSeekClient) TestCompletion(ctx context.Context) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrDeepSeekNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: deepSeekTestPrompt}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("deepseek read body: %w", err)
	}

	logger.WithCtx(ctx).Info("Ответ DeepSeek",
		zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("deepseek returned non-JSON body")
	}
	return body, nil
}

// DemoCompletion: заглушка ответа для демо-режима.
func DemoCompletion() json.RawMessage {
	return json.RawMessage(`{"id":"demo","object":"chat.completion","model":"demo","choices":[{"index":0,"message":{"role":"assistant","content":"这是演示模式下的示例回复。"},"finish_reason":"stop"}]}`)
}
