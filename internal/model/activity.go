package model

// CEFR 等级与活动类型的取值集合。模型输出在校验时不做枚举硬校验，
// 未知值按原样透传，仅提示词构造使用这些常量。
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
)

const (
	TypeComprehension = "comprehension"
	TypeVocabulary    = "vocabulary"
	TypeGrammar       = "grammar"
	TypeTrueFalse     = "true_false"
	TypeDiscussion    = "discussion"
)

// Activity 一份完整的教学材料文档，由校验器从模型原始输出构造。
// 下游组件只消费该结构，不接触原始 JSON。
type Activity struct {
	// 校验时注入的毫秒时间戳，作为历史记录主键
	ID    int64        `json:"id"`
	Title string       `json:"title"`
	Meta  ActivityMeta `json:"meta"`
	// 可缺省，缺省时排版引擎回退到默认主题
	VisualTheme  *VisualTheme  `json:"visual_theme,omitempty"`
	TeacherGuide *TeacherGuide `json:"teacher_guide,omitempty"`

	StudentWorksheet StudentWorksheet `json:"student_worksheet"`
}

type ActivityMeta struct {
	Level    string `json:"level"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

type VisualTheme struct {
	PrimaryColor string `json:"primary_color"`
	MascotPrompt string `json:"mascot_prompt"`
}

type TeacherGuide struct {
	Rationale             string   `json:"rationale,omitempty"`
	KeyAnswers            []string `json:"key_answers,omitempty"`
	ConceptCheckQuestions []string `json:"concept_check_questions,omitempty"`
	AnticipatedProblems   string   `json:"anticipated_problems,omitempty"`
}

type StudentWorksheet struct {
	Instructions string          `json:"instructions"`
	Questions    []Question      `json:"questions"`
	Glossary     []GlossaryEntry `json:"glossary,omitempty"`
	// 讨论类活动的常用句型
	FunctionalLanguage []string `json:"functional_language,omitempty"`
}

// Question 单个题目。Options 为空表示开放题，非空表示选择题，
// 该字段同时是排版变体的判别依据。
type Question struct {
	// 稳定标识，校验/加载时补齐，编辑与拖拽重排以它为目标键
	UID          string   `json:"uid"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options,omitempty"`
	// 仅脚手架模式下渲染
	Hint string `json:"hint,omitempty"`
}

type GlossaryEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	IPA        string `json:"ipa,omitempty"`
	Example    string `json:"example,omitempty"`
}

// Visuals 生成后附加到历史快照上的视觉信息，不属于模型输出
type Visuals struct {
	MascotURL   string      `json:"mascotUrl,omitempty"`
	ThemeColors ThemeColors `json:"themeColors"`
}

type ThemeColors struct {
	Primary string `json:"primary"`
}

// Document 当前展示中的文档：活动内容加视觉附件，作为整体读写
type Document struct {
	Activity Activity `json:"activity"`
	Visuals  Visuals  `json:"visuals"`
}

// QuestionIndexByUID 返回 uid 对应的下标，未找到时返回 -1
func (w *StudentWorksheet) QuestionIndexByUID(uid string) int {
	for i := range w.Questions {
		if w.Questions[i].UID == uid {
			return i
		}
	}
	return -1
}
