// 离线排版预览脚本
//
// 不依赖数据库、Redis 或任何外部端点，用内置示例材料渲染一份
// A4 PDF，用于快速核对排版改动的视觉效果。
//
// 用法: go run scripts/offline_preview.go [输出路径]

package main

import (
	"log"
	"os"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/layout"
	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/service"
)

func main() {
	out := "preview.pdf"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	activity := &model.Activity{
		Title: "Preview: Ocean Currents",
		Meta: model.ActivityMeta{
			Level:    model.LevelB1,
			Type:     model.TypeTrueFalse,
			Duration: "20m",
		},
		VisualTheme: &model.VisualTheme{PrimaryColor: "#0ea5e9"},
		TeacherGuide: &model.TeacherGuide{
			Rationale:  "Checks literal comprehension of the source text before discussion.",
			KeyAnswers: []string{"FALSE", "TRUE", "TRUE"},
			ConceptCheckQuestions: []string{
				"What makes warm water move toward the poles?",
			},
		},
		StudentWorksheet: model.StudentWorksheet{
			Instructions: "Read each statement and decide if it is true or false. Explain your answer to a partner.",
			Questions: []model.Question{
				{QuestionText: "Ocean currents are driven only by the wind.", Hint: "Think about water density."},
				{QuestionText: "The Gulf Stream carries warm water toward Europe."},
				{QuestionText: "Deep currents move faster than surface currents.", Hint: "Compare the forces involved."},
			},
			Glossary: []model.GlossaryEntry{
				{Word: "current", Definition: "a continuous directed flow of water", IPA: "ˈkʌrənt"},
				{Word: "density", Definition: "mass per unit of volume", Example: "Cold water has a higher density."},
			},
		},
	}
	service.NormalizeActivity(activity)

	theme := layout.ResolveTheme(activity.VisualTheme.PrimaryColor)

	var imgCfg config.ImageConfig
	images := service.NewImageService(imgCfg)
	mascot, err := images.Placeholder(activity.Title, theme.Primary)
	if err != nil {
		log.Fatalf("占位图渲染失败: %v", err)
	}

	var genCfg config.GenerateConfig
	config.ApplyGenerateDefaults(&genCfg)

	res, err := layout.Render(activity, theme, layout.Options{
		Scaffolded:             true,
		IncludeTeacherGuide:    true,
		CompactOptionThreshold: genCfg.CompactOptionThreshold,
		Mascot:                 mascot,
		MascotType:             "PNG",
	})
	if err != nil {
		log.Fatalf("排版失败: %v", err)
	}

	data, err := res.Output()
	if err != nil {
		log.Fatalf("PDF 序列化失败: %v", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		log.Fatalf("写文件失败: %v", err)
	}

	log.Printf("已生成 %s（%d 页，%d 字节）", out, res.Pages, len(data))
}
