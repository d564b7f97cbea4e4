package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/layout"
	"worksheet_arc_backend/internal/util"
	"worksheet_arc_backend/pkg/logger"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/golang/freetype/truetype"
)

// 导出时拉取的插图大小上限，防止异常端点撑爆内存
const maxMascotBytes = 8 << 20

// ImageService 吉祥物插图：URL 构造、导出时拉取、离线占位图
type ImageService struct {
	cfg    config.ImageConfig
	client *http.Client
}

func NewImageService(cfg config.ImageConfig) *ImageService {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ImageService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// MascotURL 拼出图像端点的确定性 URL。prompt 整体 URL 编码，
// 端点免认证，随机 seed 避免命中端点缓存里的同图。
func (s *ImageService) MascotURL(mascotPrompt, visualStyle string) string {
	full := strings.TrimSpace(mascotPrompt)
	if full == "" {
		full = "abstract concept"
	}
	if visualStyle != "" {
		full += " " + visualStyle
	}
	full += ", white background"

	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&seed=%d",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		url.PathEscape(full),
		s.cfg.Width, s.cfg.Height,
		rand.Intn(1000))
}

// Fetch 导出时同步拉取插图字节。返回数据与 fpdf 认识的格式名。
// 任何失败都折叠为 ErrImageFetch，调用方降级为无图导出。
func (s *ImageService) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, "", util.ErrImageFetch
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("mascot fetch failed", zap.String("url", imageURL), zap.Error(err))
		return nil, "", util.ErrImageFetch
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("mascot fetch bad status", zap.String("url", imageURL), zap.Int("status", resp.StatusCode))
		return nil, "", util.ErrImageFetch
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMascotBytes))
	if err != nil {
		return nil, "", util.ErrImageFetch
	}

	switch http.DetectContentType(data) {
	case "image/png":
		return data, "PNG", nil
	case "image/jpeg":
		return data, "JPG", nil
	case "image/gif":
		return data, "GIF", nil
	default:
		logger.Log.Warn("mascot has unsupported format", zap.String("url", imageURL))
		return nil, "", util.ErrImageFetch
	}
}

// Placeholder 离线模式的本地占位图：主题色圆底 + 标题首字母。
// 不依赖任何外部端点，调试模式和插图端点故障时都用它。
func (s *ImageService) Placeholder(title string, primary layout.RGB) ([]byte, error) {
	size := s.cfg.Width
	if size <= 0 {
		size = 400
	}

	dc := gg.NewContext(size, size)
	dc.SetRGB255(255, 255, 255)
	dc.Clear()

	cx, cy := float64(size)/2, float64(size)/2
	dc.SetRGB255(int(primary.R), int(primary.G), int(primary.B))
	dc.DrawCircle(cx, cy, float64(size)*0.38)
	dc.Fill()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(font, &truetype.Options{Size: float64(size) * 0.4})
	dc.SetFontFace(face)

	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored(initialOf(title), cx, cy, 0.5, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func initialOf(title string) string {
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "?"
}
