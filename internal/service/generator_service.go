package service

import (
	"context"
	"time"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/repository"
	"worksheet_arc_backend/internal/util"
	"worksheet_arc_backend/pkg/logger"
	"worksheet_arc_backend/pkg/monitoring"
	"worksheet_arc_backend/pkg/tracing"

	"go.uber.org/zap"
)

// 模型未给出主题色时落回的默认主色（近黑）
const defaultPrimaryColor = "#09090b"

// GeneratorService 生成流水线编排：
// 锁 → 提示词 → 模型调用 → 校验 → 插图 URL → 当前文档落盘 → 历史头插。
// 步骤严格顺序，任一步失败终止后续步骤，之前已提交的文档不回滚。
type GeneratorService struct {
	AI      *AIService
	Prompt  *PromptService
	Image   *ImageService
	History *HistoryService
	Current *repository.CurrentRepository
	Cfg     *config.Config
}

func NewGeneratorService(
	ai *AIService,
	prompt *PromptService,
	image *ImageService,
	history *HistoryService,
	current *repository.CurrentRepository,
	cfg *config.Config,
) *GeneratorService {
	return &GeneratorService{
		AI:      ai,
		Prompt:  prompt,
		Image:   image,
		History: history,
		Current: current,
		Cfg:     cfg,
	}
}

// Generate 执行一次完整生成。同一用户同时只允许一次，
// 撞锁返回 ErrGenerationInFlight（不排队）。
func (s *GeneratorService) Generate(ctx context.Context, userKey string, req *GenerationRequest) (*model.Document, error) {
	ctx, span := tracing.Tracer.Start(ctx, "generator.Generate")
	defer span.End()

	req.ApplyDefaults()

	lockTTL := time.Duration(s.Cfg.Generate.LockTTLSec) * time.Second
	acquired, err := s.Current.AcquireGenerationLock(ctx, userKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, util.ErrGenerationInFlight
	}
	defer s.Current.ReleaseGenerationLock(ctx, userKey)

	var activity *model.Activity
	if s.AI.DebugMode() {
		activity = s.debugActivity(req)
	} else {
		activity, err = s.generateActivity(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	doc := &model.Document{
		Activity: *activity,
		Visuals:  s.buildVisuals(activity, req),
	}

	if err := s.Current.Set(ctx, userKey, doc); err != nil {
		return nil, err
	}
	if err := s.History.AddToHistory(ctx, userKey, doc); err != nil {
		// 文档已可用，历史落库失败只告警不打断
		logger.Log.Warn("history append failed after generation",
			zap.String("userKey", userKey), zap.Error(err))
	}

	logger.Log.Info("worksheet generated",
		zap.String("userKey", userKey),
		zap.Int64("activityId", activity.ID),
		zap.String("type", activity.Meta.Type),
		zap.Int("questions", len(activity.StudentWorksheet.Questions)))

	return doc, nil
}

func (s *GeneratorService) generateActivity(ctx context.Context, req *GenerationRequest) (*model.Activity, error) {
	modelName, err := s.AI.ResolveModel(req.Model)
	if err != nil {
		return nil, err
	}

	prompt := s.Prompt.Build(req)

	raw, err := s.AI.Chat(ctx, modelName, "", prompt)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("model", "failure").Inc()
		return nil, err
	}
	monitoring.GenerationCounter.WithLabelValues("model", "success").Inc()

	activity, err := ValidateActivity(raw)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("validate", "failure").Inc()
		logger.Log.Warn("model response rejected", zap.Error(err))
		return nil, err
	}
	monitoring.GenerationCounter.WithLabelValues("validate", "success").Inc()

	return activity, nil
}

// buildVisuals 插图只在此处拼 URL，真正的字节拉取推迟到导出时
func (s *GeneratorService) buildVisuals(activity *model.Activity, req *GenerationRequest) model.Visuals {
	primary := defaultPrimaryColor
	if activity.VisualTheme != nil && activity.VisualTheme.PrimaryColor != "" {
		primary = activity.VisualTheme.PrimaryColor
	}

	// 调试模式完全离线，不指向外部端点
	if s.AI.DebugMode() {
		return model.Visuals{ThemeColors: model.ThemeColors{Primary: primary}}
	}

	mascotPrompt := req.MascotPref
	if mascotPrompt == "" && activity.VisualTheme != nil {
		mascotPrompt = activity.VisualTheme.MascotPrompt
	}

	return model.Visuals{
		MascotURL:   s.Image.MascotURL(mascotPrompt, req.VisualStyle),
		ThemeColors: model.ThemeColors{Primary: primary},
	}
}

// debugActivity 离线示例材料，api_key 配置为哨兵值时使用
func (s *GeneratorService) debugActivity(req *GenerationRequest) *model.Activity {
	activity := &model.Activity{
		Title: "Debug Mode: Quantum Physics",
		Meta: model.ActivityMeta{
			Level:    req.Level,
			Type:     req.ActivityType,
			Duration: "20m",
		},
		VisualTheme: &model.VisualTheme{
			PrimaryColor: "#14b8a6",
			MascotPrompt: "A futuristic robot scientist",
		},
		TeacherGuide: &model.TeacherGuide{
			Rationale:  "Offline sample material for pipeline verification.",
			KeyAnswers: []string{"A small packet of energy", "Both"},
		},
		StudentWorksheet: model.StudentWorksheet{
			Instructions: "Read the following text and answer the questions. (DEBUG MODE)",
			Questions: []model.Question{
				{
					QuestionText: "What is a quantum?",
					Options:      []string{"A small packet of energy", "A type of fruit"},
					Hint:         "Think small.",
				},
				{
					QuestionText: "Is light a particle or a wave?",
					Options:      []string{"Particle", "Wave", "Both"},
					Hint:         "It's tricky!",
				},
			},
			Glossary: []model.GlossaryEntry{
				{Word: "Quantum", Definition: "The smallest amount of a physical quantity."},
			},
		},
	}
	NormalizeActivity(activity)
	return activity
}
