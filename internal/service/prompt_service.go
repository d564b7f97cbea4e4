package service

import (
	"fmt"
	"strconv"
	"strings"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/model"
)

// GenerationRequest 一次生成的全部用户配置
type GenerationRequest struct {
	Transcript   string `json:"transcript" binding:"required"`
	ActivityType string `json:"activityType"`
	Level        string `json:"level"`
	// short / medium / long，映射为题目数量
	Length      string `json:"length"`
	Audience    string `json:"audience"`
	Scaffolded  bool   `json:"scaffolded"`
	VisualStyle string `json:"visualStyle"`
	MascotPref  string `json:"mascotPref"`
	// 可选模型覆盖，须在白名单内
	Model string `json:"model"`
}

// ApplyDefaults 补齐缺省配置项
func (r *GenerationRequest) ApplyDefaults() {
	if r.ActivityType == "" {
		r.ActivityType = model.TypeComprehension
	}
	if r.Level == "" {
		r.Level = model.LevelB1
	}
	if r.Length == "" {
		r.Length = "medium"
	}
	if r.Audience == "" {
		r.Audience = "adults"
	}
	if r.VisualStyle == "" {
		r.VisualStyle = "minimal vector line art"
	}
}

// PromptService 提示词构造。纯函数集合，无任何副作用。
type PromptService struct {
	cfg config.GenerateConfig
}

func NewPromptService(cfg config.GenerateConfig) *PromptService {
	return &PromptService{cfg: cfg}
}

// UpdateConfig 配置热更新入口
func (s *PromptService) UpdateConfig(cfg config.GenerateConfig) {
	s.cfg = cfg
}

// ItemCount 长度档位到题目数量的固定映射
func (s *PromptService) ItemCount(length string) int {
	switch length {
	case "short":
		return s.cfg.ShortCount
	case "long":
		return s.cfg.LongCount
	default:
		return s.cfg.MediumCount
	}
}

// typeClause 活动类型到指令焦点的固定映射
func (s *PromptService) typeClause(activityType string, count int) string {
	switch activityType {
	case model.TypeVocabulary:
		return fmt.Sprintf("FOCUS: VOCABULARY. Extract %d difficult words. Create matching questions.", count)
	case model.TypeGrammar:
		return "FOCUS: GRAMMAR. Identify tense/structures. Create fill-in-the-blanks."
	case model.TypeTrueFalse:
		return fmt.Sprintf("FOCUS: TRUE/FALSE. Create %d statements.", count)
	case model.TypeDiscussion:
		return "FOCUS: SPEAKING. Create discussion prompts."
	default:
		return "FOCUS: COMPREHENSION. Standard open questions."
	}
}

// Build 组装完整提示词。转写文本经引号转义嵌入，
// 用户输入无法伪装成指令结构（防御性框定，真正的把关在校验器）。
func (s *PromptService) Build(req *GenerationRequest) string {
	count := s.ItemCount(req.Length)
	typeClause := s.typeClause(req.ActivityType, count)

	scaffoldClause := "SCAFFOLDING: OFF."
	if req.Scaffolded {
		scaffoldClause = "SCAFFOLDING: ON. Hints, Multiple Choice."
	}

	// strconv.Quote 转义内部引号与控制字符
	quoted := strconv.Quote(strings.TrimSpace(req.Transcript))

	var b strings.Builder
	b.WriteString(`You are "arc", an advanced Material Architect AI.` + "\n")
	b.WriteString("TEXT: " + quoted + "\n")
	fmt.Fprintf(&b, "CONFIG: %s | Level: %s | Audience: %s | %s\n\n",
		typeClause, req.Level, req.Audience, scaffoldClause)
	b.WriteString("TASK:\n")
	fmt.Fprintf(&b, "1. Create content tailored for %s.\n", req.Audience)
	b.WriteString("2. DESIGN A VISUAL THEME (primary_color, mascot_prompt).\n\n")
	b.WriteString("OUTPUT JSON ONLY:\n")
	fmt.Fprintf(&b, `{
  "title": "Title",
  "meta": { "level": "%s", "type": "%s", "duration": "20m" },
  "visual_theme": { "primary_color": "#hex", "mascot_prompt": "desc" },
  "student_worksheet": {
    "instructions": "...",
    "questions": [{ "question_text": "...", "options": ["A","B"], "hint": "..." }],
    "glossary": [{ "word": "...", "definition": "..." }]
  }
}`, req.Level, req.ActivityType)

	return b.String()
}
