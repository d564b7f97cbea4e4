package layout

import (
	"bytes"
	"fmt"
	"strings"

	"worksheet_arc_backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// A4 纸面常量（毫米）
const (
	pageWidth  = 210.0
	pageHeight = 297.0

	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 18.0

	contentWidth  = pageWidth - marginLeft - marginRight
	contentBottom = pageHeight - marginBottom

	lineHeight     = 5.2
	blockGap       = 4.0
	questionGap    = 5.0
	badgeDiameter  = 7.0
	headerHeight   = 34.0
	mascotSize     = 24.0
	blankRuleGap   = 8.5
	optionRowH     = 7.5
	hintPadding    = 2.5
	boxPadding     = 3.5
	footerBaseline = pageHeight - 10.0
)

// Variant 题目主体的排版变体，由选项形态决定
type Variant int

const (
	// 选项短，单行水平排布
	VariantChoiceRow Variant = iota
	// 选项长，垂直堆叠
	VariantChoiceList
	// 判断题专用 TRUE/FALSE 双框
	VariantTrueFalse
	// 开放题，画横线答题区
	VariantBlankLines
)

func (v Variant) String() string {
	switch v {
	case VariantChoiceRow:
		return "choice_row"
	case VariantChoiceList:
		return "choice_list"
	case VariantTrueFalse:
		return "true_false"
	default:
		return "blank_lines"
	}
}

// BlockKind 排版计划中的块类型
type BlockKind string

const (
	BlockHeader       BlockKind = "header"
	BlockInstructions BlockKind = "instructions"
	BlockQuestion     BlockKind = "question"
	BlockFunctional   BlockKind = "functional_language"
	BlockGlossary     BlockKind = "glossary"
	BlockTeacherGuide BlockKind = "teacher_guide"
)

// PlacedBlock 记录一个块最终落在哪一页、什么位置。
// 排版计划与 PDF 字节同时产出，测试只断言计划。
type PlacedBlock struct {
	Kind     BlockKind
	Page     int
	Y        float64
	Height   float64
	Question int // 题目下标，非题目块为 -1
	Variant  Variant
}

// Options 单次渲染的开关
type Options struct {
	// 脚手架模式：渲染 hint 提示条
	Scaffolded bool
	// 附加教师指南页
	IncludeTeacherGuide bool
	// 选项紧凑布局阈值
	CompactOptionThreshold int
	// 吉祥物图片字节，nil 表示跳过插图
	Mascot []byte
	// "PNG" / "JPG"，与 Mascot 配套
	MascotType string
}

// Result 渲染产物：PDF 对象、页数与排版计划
type Result struct {
	PDF    *fpdf.Fpdf
	Pages  int
	Blocks []PlacedBlock
}

// Output 将 PDF 序列化为字节
func (r *Result) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.PDF.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Engine 分页排版引擎。自管 y 游标，先测量后放置，
// 保证题目等原子块永不跨页断裂。
type Engine struct {
	pdf    *fpdf.Fpdf
	theme  Theme
	opts   Options
	y      float64
	blocks []PlacedBlock
}

// ChooseVariant 为题目选择排版变体。纯函数，不依赖引擎状态。
func ChooseVariant(q *model.Question, activityType string, threshold int) Variant {
	if len(q.Options) > 0 {
		joined := 0
		for _, opt := range q.Options {
			joined += len(opt) + 4
		}
		if joined < threshold {
			return VariantChoiceRow
		}
		return VariantChoiceList
	}
	if activityType == model.TypeTrueFalse {
		return VariantTrueFalse
	}
	return VariantBlankLines
}

// Render 将 Activity 排版为 A4 PDF。学生页从表头开始顺排，
// 教师指南（如请求且存在）总是另起新页。
func Render(a *model.Activity, theme Theme, opts Options) (*Result, error) {
	if opts.CompactOptionThreshold <= 0 {
		opts.CompactOptionThreshold = 55
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	// 分页由引擎自己决定，关闭自动断页
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	e := &Engine{pdf: pdf, theme: theme, opts: opts}
	e.setFooter(a)

	pdf.AddPage()
	e.y = marginTop

	if err := e.renderHeader(a); err != nil {
		return nil, err
	}
	e.renderInstructions(a.StudentWorksheet.Instructions)

	for i := range a.StudentWorksheet.Questions {
		e.renderQuestion(i, &a.StudentWorksheet.Questions[i], a.Meta.Type)
	}

	if len(a.StudentWorksheet.FunctionalLanguage) > 0 {
		e.renderFunctionalLanguage(a.StudentWorksheet.FunctionalLanguage)
	}
	if len(a.StudentWorksheet.Glossary) > 0 {
		e.renderGlossary(a.StudentWorksheet.Glossary)
	}

	if opts.IncludeTeacherGuide && a.TeacherGuide != nil {
		e.renderTeacherGuide(a.TeacherGuide)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf generation: %w", pdf.Error())
	}

	return &Result{PDF: pdf, Pages: pdf.PageCount(), Blocks: e.blocks}, nil
}

// setFooter 注册页脚回调，fpdf 在每页收尾（含最后一页）时调用
func (e *Engine) setFooter(a *model.Activity) {
	title := a.Title
	e.pdf.SetFooterFunc(func() {
		e.pdf.SetFont("Helvetica", "", 8)
		e.pdf.SetTextColor(int(e.theme.Muted.R), int(e.theme.Muted.G), int(e.theme.Muted.B))
		e.pdf.SetDrawColor(int(e.theme.Border.R), int(e.theme.Border.G), int(e.theme.Border.B))
		e.pdf.Line(marginLeft, footerBaseline-3, pageWidth-marginRight, footerBaseline-3)
		e.pdf.Text(marginLeft, footerBaseline, title)
		pageLabel := fmt.Sprintf("Page %d of {nb}", e.pdf.PageNo())
		e.pdf.Text(pageWidth-marginRight-e.pdf.GetStringWidth(pageLabel), footerBaseline, pageLabel)
	})
}

// ensureSpace 剩余空间不足时翻页，块整体搬到新页
func (e *Engine) ensureSpace(h float64) {
	if e.y+h > contentBottom {
		e.pdf.AddPage()
		e.y = marginTop
	}
}

func (e *Engine) place(kind BlockKind, h float64, question int, variant Variant) {
	e.blocks = append(e.blocks, PlacedBlock{
		Kind:     kind,
		Page:     e.pdf.PageNo(),
		Y:        e.y,
		Height:   h,
		Question: question,
		Variant:  variant,
	})
}

func (e *Engine) setFill(c RGB) { e.pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func (e *Engine) setText(c RGB) { e.pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
func (e *Engine) setDraw(c RGB) { e.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }

// wrap 按宽度折行
func (e *Engine) wrap(s string, w float64) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return e.pdf.SplitText(s, w)
}

func (e *Engine) textHeight(s string, w float64) float64 {
	return float64(len(e.wrap(s, w))) * lineHeight
}

// renderHeader 主题色横幅：标题、元信息徽标与吉祥物
func (e *Engine) renderHeader(a *model.Activity) error {
	e.place(BlockHeader, headerHeight, -1, 0)

	e.setFill(e.theme.Primary)
	e.pdf.Rect(marginLeft, e.y, contentWidth, headerHeight, "F")

	titleWidth := contentWidth - 12
	if e.opts.Mascot != nil {
		titleWidth -= mascotSize + 6
	}

	e.pdf.SetFont("Helvetica", "B", 17)
	e.setText(White)
	lines := e.wrap(a.Title, titleWidth)
	if len(lines) > 2 {
		lines = lines[:2]
	}
	ty := e.y + 11
	for _, line := range lines {
		e.pdf.Text(marginLeft+6, ty, line)
		ty += 7.5
	}

	// 元信息徽标行
	e.pdf.SetFont("Helvetica", "B", 8)
	chips := []string{}
	if a.Meta.Level != "" {
		chips = append(chips, strings.ToUpper(a.Meta.Level))
	}
	if a.Meta.Type != "" {
		chips = append(chips, strings.ToUpper(strings.ReplaceAll(a.Meta.Type, "_", " ")))
	}
	if a.Meta.Duration != "" {
		chips = append(chips, a.Meta.Duration)
	}
	cx := marginLeft + 6
	cy := e.y + headerHeight - 9
	for _, chip := range chips {
		cw := e.pdf.GetStringWidth(chip) + 6
		e.setFill(White)
		e.pdf.RoundedRect(cx, cy, cw, 5.5, 1.5, "1234", "F")
		e.setText(e.theme.Primary)
		e.pdf.Text(cx+3, cy+4, chip)
		cx += cw + 3
	}

	// 插图失败不致命，已在上游降级为 nil
	if e.opts.Mascot != nil {
		name := "mascot"
		opt := fpdf.ImageOptions{ImageType: e.opts.MascotType, ReadDpi: false}
		e.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(e.opts.Mascot))
		if e.pdf.Err() {
			return fmt.Errorf("mascot embed: %w", e.pdf.Error())
		}
		mx := pageWidth - marginRight - mascotSize - 5
		my := e.y + (headerHeight-mascotSize)/2
		e.setFill(White)
		e.pdf.RoundedRect(mx-1.5, my-1.5, mascotSize+3, mascotSize+3, 2.5, "1234", "F")
		e.pdf.ImageOptions(name, mx, my, mascotSize, mascotSize, false, opt, 0, "")
	}

	e.y += headerHeight + blockGap + 2
	return nil
}

// renderInstructions 指令框：浅底、左侧主题色竖条
func (e *Engine) renderInstructions(instructions string) {
	if strings.TrimSpace(instructions) == "" {
		return
	}
	e.pdf.SetFont("Helvetica", "I", 10)
	textW := contentWidth - 2*boxPadding - 3
	h := e.textHeight(instructions, textW) + 2*boxPadding

	e.ensureSpace(h)
	e.place(BlockInstructions, h, -1, 0)

	e.setFill(e.theme.Light)
	e.pdf.Rect(marginLeft, e.y, contentWidth, h, "F")
	e.setFill(e.theme.Primary)
	e.pdf.Rect(marginLeft, e.y, 1.6, h, "F")

	e.setText(e.theme.Muted)
	ty := e.y + boxPadding + 3.6
	for _, line := range e.wrap(instructions, textW) {
		e.pdf.Text(marginLeft+boxPadding+3, ty, line)
		ty += lineHeight
	}
	e.y += h + blockGap
}

// measureQuestion 预先计算整块高度，含提示条，供 ensureSpace 使用
func (e *Engine) measureQuestion(q *model.Question, variant Variant) float64 {
	e.pdf.SetFont("Helvetica", "B", 10.5)
	textW := contentWidth - badgeDiameter - 4
	h := e.textHeight(q.QuestionText, textW)
	if h < badgeDiameter {
		h = badgeDiameter
	}
	h += 2.5

	e.pdf.SetFont("Helvetica", "", 10)
	switch variant {
	case VariantChoiceRow:
		h += optionRowH
	case VariantChoiceList:
		optW := textW - 9
		for _, opt := range q.Options {
			oh := e.textHeight(opt, optW)
			if oh < lineHeight {
				oh = lineHeight
			}
			h += oh + 2
		}
	case VariantTrueFalse:
		h += optionRowH + 1
	case VariantBlankLines:
		h += 2 * blankRuleGap
	}

	if e.opts.Scaffolded && strings.TrimSpace(q.Hint) != "" {
		e.pdf.SetFont("Helvetica", "I", 8.5)
		h += e.textHeight("Hint: "+q.Hint, textW-2*hintPadding) + 2*hintPadding + 2
	}
	return h
}

// renderQuestion 题目是原子块：测量、保证空间、整体绘制
func (e *Engine) renderQuestion(idx int, q *model.Question, activityType string) {
	variant := ChooseVariant(q, activityType, e.opts.CompactOptionThreshold)
	h := e.measureQuestion(q, variant)

	e.ensureSpace(h)
	e.place(BlockQuestion, h, idx, variant)

	bodyX := marginLeft + badgeDiameter + 4
	textW := contentWidth - badgeDiameter - 4

	// 题号圆形徽标
	e.setFill(e.theme.Primary)
	e.pdf.Circle(marginLeft+badgeDiameter/2, e.y+badgeDiameter/2, badgeDiameter/2, "F")
	e.pdf.SetFont("Helvetica", "B", 9)
	e.setText(White)
	num := fmt.Sprintf("%d", idx+1)
	e.pdf.Text(marginLeft+badgeDiameter/2-e.pdf.GetStringWidth(num)/2, e.y+badgeDiameter/2+1.5, num)

	e.pdf.SetFont("Helvetica", "B", 10.5)
	e.setText(Black)
	ty := e.y + 4.2
	for _, line := range e.wrap(q.QuestionText, textW) {
		e.pdf.Text(bodyX, ty, line)
		ty += lineHeight
	}
	stemH := e.textHeight(q.QuestionText, textW)
	if stemH < badgeDiameter {
		stemH = badgeDiameter
	}
	by := e.y + stemH + 2.5

	e.pdf.SetFont("Helvetica", "", 10)
	switch variant {
	case VariantChoiceRow:
		e.renderChoiceRow(q.Options, bodyX, by)
	case VariantChoiceList:
		e.renderChoiceList(q.Options, bodyX, by, textW)
	case VariantTrueFalse:
		e.renderTrueFalse(bodyX, by)
	case VariantBlankLines:
		e.renderBlankLines(bodyX, by, textW)
	}

	if e.opts.Scaffolded && strings.TrimSpace(q.Hint) != "" {
		e.renderHint(q.Hint, bodyX, e.y+h, textW)
	}

	e.y += h + questionGap
}

func (e *Engine) renderChoiceRow(options []string, x, y float64) {
	e.setDraw(e.theme.Border)
	e.setText(Black)
	for i, opt := range options {
		label := fmt.Sprintf("%c) %s", 'a'+i, opt)
		e.pdf.Rect(x, y+1, 3.5, 3.5, "D")
		e.pdf.Text(x+5, y+4, label)
		x += 5 + e.pdf.GetStringWidth(label) + 8
	}
}

func (e *Engine) renderChoiceList(options []string, x, y, w float64) {
	e.setDraw(e.theme.Border)
	e.setText(Black)
	optW := w - 9
	for i, opt := range options {
		e.pdf.Rect(x, y+0.8, 3.5, 3.5, "D")
		e.pdf.Text(x+6, y+3.8, fmt.Sprintf("%c)", 'a'+i))
		ly := y + 3.8
		for _, line := range e.wrap(opt, optW) {
			e.pdf.Text(x+11, ly, line)
			ly += lineHeight
		}
		oh := e.textHeight(opt, optW)
		if oh < lineHeight {
			oh = lineHeight
		}
		y += oh + 2
	}
}

func (e *Engine) renderTrueFalse(x, y float64) {
	e.setDraw(e.theme.Primary)
	e.setText(e.theme.Primary)
	e.pdf.SetFont("Helvetica", "B", 9.5)
	for _, label := range []string{"TRUE", "FALSE"} {
		w := e.pdf.GetStringWidth(label) + 12
		e.pdf.RoundedRect(x, y, w, 6.5, 1.5, "1234", "D")
		e.pdf.Text(x+6, y+4.5, label)
		x += w + 6
	}
}

func (e *Engine) renderBlankLines(x, y, w float64) {
	e.setDraw(e.theme.Border)
	for i := 0; i < 2; i++ {
		ly := y + float64(i+1)*blankRuleGap - 2
		e.pdf.Line(x, ly, x+w, ly)
	}
}

// renderHint 提示条贴在题块底部，blockBottom 为块底边
func (e *Engine) renderHint(hint string, x, blockBottom, w float64) {
	text := "Hint: " + hint
	e.pdf.SetFont("Helvetica", "I", 8.5)
	textW := w - 2*hintPadding
	h := e.textHeight(text, textW) + 2*hintPadding
	y := blockBottom - h

	e.setFill(e.theme.HintBG)
	e.pdf.Rect(x, y, w, h, "F")
	e.setFill(e.theme.Hint)
	e.pdf.Rect(x, y, 1.2, h, "F")

	e.setText(e.theme.Hint)
	ty := y + hintPadding + 3
	for _, line := range e.wrap(text, textW) {
		e.pdf.Text(x+hintPadding+2, ty, line)
		ty += lineHeight
	}
}

// renderFunctionalLanguage 讨论句型行，整体作为单块排布
func (e *Engine) renderFunctionalLanguage(phrases []string) {
	e.pdf.SetFont("Helvetica", "I", 9.5)
	joined := strings.Join(phrases, "   •   ")
	textW := contentWidth - 2*boxPadding
	h := e.textHeight(joined, textW) + 2*boxPadding + 6

	e.ensureSpace(h)
	e.place(BlockFunctional, h, -1, 0)

	e.pdf.SetFont("Helvetica", "B", 9)
	e.setText(e.theme.Primary)
	e.pdf.Text(marginLeft, e.y+4, "USEFUL LANGUAGE")

	e.setDraw(e.theme.Border)
	e.setFill(e.theme.Light)
	boxY := e.y + 6
	e.pdf.RoundedRect(marginLeft, boxY, contentWidth, h-6, 1.5, "1234", "FD")

	e.pdf.SetFont("Helvetica", "I", 9.5)
	e.setText(e.theme.Muted)
	ty := boxY + boxPadding + 3
	for _, line := range e.wrap(joined, textW) {
		e.pdf.Text(marginLeft+boxPadding, ty, line)
		ty += lineHeight
	}
	e.y += h + blockGap
}

// renderGlossary 词汇表：每条 词 /ipa/ 释义 + 可选例句
func (e *Engine) renderGlossary(entries []model.GlossaryEntry) {
	textW := contentWidth - 2*boxPadding
	h := 8.0
	e.pdf.SetFont("Helvetica", "", 9.5)
	for _, entry := range entries {
		h += e.textHeight(glossaryLine(entry), textW) + 1.5
		if entry.Example != "" {
			e.pdf.SetFont("Helvetica", "I", 8.5)
			h += e.textHeight("e.g. "+entry.Example, textW-4)
			e.pdf.SetFont("Helvetica", "", 9.5)
		}
	}
	h += boxPadding

	e.ensureSpace(h)
	e.place(BlockGlossary, h, -1, 0)

	e.pdf.SetFont("Helvetica", "B", 9)
	e.setText(e.theme.Primary)
	e.pdf.Text(marginLeft, e.y+4, "GLOSSARY")
	e.setDraw(e.theme.Border)
	e.pdf.Line(marginLeft, e.y+6, pageWidth-marginRight, e.y+6)

	ty := e.y + 11.5
	for _, entry := range entries {
		e.pdf.SetFont("Helvetica", "", 9.5)
		e.setText(Black)
		for _, line := range e.wrap(glossaryLine(entry), textW) {
			e.pdf.Text(marginLeft+boxPadding, ty, line)
			ty += lineHeight
		}
		ty += 1.5
		if entry.Example != "" {
			e.pdf.SetFont("Helvetica", "I", 8.5)
			e.setText(e.theme.Muted)
			for _, line := range e.wrap("e.g. "+entry.Example, textW-4) {
				e.pdf.Text(marginLeft+boxPadding+4, ty, line)
				ty += lineHeight
			}
		}
	}
	e.y += h + blockGap
}

func glossaryLine(entry model.GlossaryEntry) string {
	if entry.IPA != "" {
		return fmt.Sprintf("%s  /%s/  -  %s", entry.Word, strings.Trim(entry.IPA, "/"), entry.Definition)
	}
	return fmt.Sprintf("%s  -  %s", entry.Word, entry.Definition)
}

// renderTeacherGuide 教师指南不与学生内容混排，总是另起新页
func (e *Engine) renderTeacherGuide(g *model.TeacherGuide) {
	e.pdf.AddPage()
	e.y = marginTop
	e.place(BlockTeacherGuide, 0, -1, 0)

	e.setFill(e.theme.Light)
	e.pdf.Rect(marginLeft, e.y, contentWidth, 12, "F")
	e.pdf.SetFont("Helvetica", "B", 13)
	e.setText(e.theme.Primary)
	e.pdf.Text(marginLeft+4, e.y+8, "TEACHER'S GUIDE")
	e.y += 12 + blockGap + 2

	if g.Rationale != "" {
		e.guideSection("Rationale", []string{g.Rationale})
	}
	if len(g.KeyAnswers) > 0 {
		numbered := make([]string, len(g.KeyAnswers))
		for i, ans := range g.KeyAnswers {
			numbered[i] = fmt.Sprintf("%d. %s", i+1, ans)
		}
		e.guideSection("Answer Key", numbered)
	}
	if len(g.ConceptCheckQuestions) > 0 {
		bulleted := make([]string, len(g.ConceptCheckQuestions))
		for i, q := range g.ConceptCheckQuestions {
			bulleted[i] = "- " + q
		}
		e.guideSection("Concept Check Questions", bulleted)
	}
	if g.AnticipatedProblems != "" {
		e.guideSection("Anticipated Problems", []string{g.AnticipatedProblems})
	}
}

func (e *Engine) guideSection(title string, paragraphs []string) {
	e.pdf.SetFont("Helvetica", "", 10)
	h := 7.0
	for _, p := range paragraphs {
		h += e.textHeight(p, contentWidth) + 1
	}

	e.ensureSpace(h)

	e.pdf.SetFont("Helvetica", "B", 10.5)
	e.setText(Black)
	e.pdf.Text(marginLeft, e.y+4, title)
	ty := e.y + 10

	e.pdf.SetFont("Helvetica", "", 10)
	for _, p := range paragraphs {
		for _, line := range e.wrap(p, contentWidth) {
			e.pdf.Text(marginLeft, ty, line)
			ty += lineHeight
		}
		ty += 1
	}
	e.y += h + blockGap
}
