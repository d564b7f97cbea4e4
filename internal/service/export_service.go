package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/layout"
	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/repository"
	"worksheet_arc_backend/internal/util"
	"worksheet_arc_backend/pkg/logger"
	"worksheet_arc_backend/pkg/monitoring"
	"worksheet_arc_backend/pkg/tracing"

	"go.uber.org/zap"
)

// ExportOptions 单次导出的开关
type ExportOptions struct {
	// 附加教师指南页（答案、教学要点）
	TeacherMode bool
	// 渲染题目提示条
	Scaffolded bool
}

// ExportResult 导出产物与元信息
type ExportResult struct {
	Filename string
	Data     []byte
	Pages    int
}

// ExportService 把当前文档渲染为 A4 PDF 并归档到对象存储
type ExportService struct {
	Image       *ImageService
	History     *HistoryService
	HistoryRepo *repository.HistoryRepository
	Storage     StorageProvider
	Cfg         *config.Config
}

func NewExportService(
	image *ImageService,
	history *HistoryService,
	historyRepo *repository.HistoryRepository,
	storage StorageProvider,
	cfg *config.Config,
) *ExportService {
	return &ExportService{
		Image:       image,
		History:     history,
		HistoryRepo: historyRepo,
		Storage:     storage,
		Cfg:         cfg,
	}
}

// Export 渲染当前文档。插图拉取失败只降级不中止，
// 归档上传失败同样不影响下载（留痕是旁路）。
func (s *ExportService) Export(ctx context.Context, userKey string, opts ExportOptions) (*ExportResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "export.Export")
	defer span.End()

	start := time.Now()

	doc, err := s.History.CurrentDocument(ctx, userKey)
	if err != nil {
		return nil, err
	}

	theme := s.resolveTheme(doc)
	mascot, mascotType := s.fetchMascot(ctx, doc, theme)

	res, err := layout.Render(&doc.Activity, theme, layout.Options{
		Scaffolded:             opts.Scaffolded,
		IncludeTeacherGuide:    opts.TeacherMode,
		CompactOptionThreshold: s.Cfg.Generate.CompactOptionThreshold,
		Mascot:                 mascot,
		MascotType:             mascotType,
	})
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("export", "failure").Inc()
		return nil, err
	}

	data, err := res.Output()
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("export", "failure").Inc()
		return nil, err
	}
	monitoring.GenerationCounter.WithLabelValues("export", "success").Inc()
	monitoring.ExportDuration.Observe(time.Since(start).Seconds())

	filename := ExportFilename(doc.Activity.Title)
	s.archive(ctx, userKey, doc, filename, data, opts.TeacherMode, res.Pages)

	return &ExportResult{
		Filename: filename,
		Data:     data,
		Pages:    res.Pages,
	}, nil
}

func (s *ExportService) resolveTheme(doc *model.Document) layout.Theme {
	primary := doc.Visuals.ThemeColors.Primary
	if primary == "" && doc.Activity.VisualTheme != nil {
		primary = doc.Activity.VisualTheme.PrimaryColor
	}
	return layout.ResolveTheme(primary)
}

// fetchMascot 取插图字节。无 URL（离线模式）时本地合成占位图，
// 拉取失败时返回空，页面不带插图继续排版。
func (s *ExportService) fetchMascot(ctx context.Context, doc *model.Document, theme layout.Theme) ([]byte, string) {
	if doc.Visuals.MascotURL == "" {
		data, err := s.Image.Placeholder(doc.Activity.Title, theme.Primary)
		if err != nil {
			logger.Log.Warn("placeholder render failed", zap.Error(err))
			return nil, ""
		}
		return data, "PNG"
	}

	data, imageType, err := s.Image.Fetch(ctx, doc.Visuals.MascotURL)
	if err != nil {
		if !errors.Is(err, util.ErrImageFetch) {
			logger.Log.Warn("unexpected mascot error", zap.Error(err))
		}
		return nil, ""
	}
	return data, imageType
}

// archive 归档上传与导出留痕，失败只告警
func (s *ExportService) archive(ctx context.Context, userKey string, doc *model.Document, filename string, data []byte, teacherMode bool, pages int) {
	objectKey := fmt.Sprintf("%s/%d/%s",
		strings.ReplaceAll(userKey, ":", "_"), doc.Activity.ID, filename)

	if _, err := s.Storage.Upload(ctx, objectKey, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		logger.Log.Warn("export archive upload failed",
			zap.String("objectKey", objectKey), zap.Error(err))
		return
	}

	record := &model.ExportRecord{
		UserKey:     userKey,
		ActivityID:  doc.Activity.ID,
		Filename:    filename,
		ObjectKey:   objectKey,
		TeacherMode: teacherMode,
		Pages:       pages,
	}
	if err := s.HistoryRepo.CreateExportRecord(record); err != nil {
		logger.Log.Warn("export record insert failed", zap.Error(err))
	}
}

// ExportFilename 标题空白折叠为下划线，空标题回退固定名
func ExportFilename(title string) string {
	fields := strings.Fields(strings.TrimSpace(title))
	if len(fields) == 0 {
		return "worksheet.pdf"
	}
	return strings.Join(fields, "_") + ".pdf"
}
