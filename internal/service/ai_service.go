package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/util"
)

// debugAPIKey 调试哨兵值：配置该值时生成流程完全离线，
// 返回内置示例材料，不发任何外部请求
const debugAPIKey = "DEBUG"

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// DebugMode 是否处于离线调试模式
func (s *AIService) DebugMode() bool {
	return s.config.APIKey == debugAPIKey
}

// ResolveModel 解析请求指定的模型：空值用默认，非空必须在白名单内
func (s *AIService) ResolveModel(requested string) (string, error) {
	if requested == "" {
		return s.config.Model, nil
	}
	if requested == s.config.Model {
		return requested, nil
	}
	for _, allowed := range s.config.AllowedModels {
		if requested == allowed {
			return requested, nil
		}
	}
	return "", fmt.Errorf("model %q is not allowed", requested)
}

// Chat 单轮补全，返回模型原始文本。上游负责提取其中的 JSON。
func (s *AIService) Chat(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if s.config.APIKey == "" {
		return "", util.ErrMissingCredential
	}

	messages := []AIChatMessage{}
	if systemPrompt != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: userPrompt})

	reqBody := ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}
