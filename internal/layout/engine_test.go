package layout

import (
	"fmt"
	"strings"
	"testing"

	"worksheet_arc_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActivity() *model.Activity {
	return &model.Activity{
		ID:    1700000000000,
		Title: "Quantum Basics",
		Meta: model.ActivityMeta{
			Level:    model.LevelB1,
			Type:     model.TypeTrueFalse,
			Duration: "15 min",
		},
		VisualTheme: &model.VisualTheme{PrimaryColor: "#4f46e5"},
		TeacherGuide: &model.TeacherGuide{
			Rationale:  "Introduces superposition through everyday analogies.",
			KeyAnswers: []string{"TRUE", "FALSE"},
		},
		StudentWorksheet: model.StudentWorksheet{
			Instructions: "Read each statement and decide if it is true or false.",
			Questions: []model.Question{
				{UID: "q-1", QuestionText: "Light behaves only as a particle.", Hint: "Think about the double-slit experiment."},
				{UID: "q-2", QuestionText: "A qubit can hold a superposition of states."},
			},
			Glossary: []model.GlossaryEntry{
				{Word: "superposition", Definition: "a combination of states existing at once", IPA: "ˌsuːpəpəˈzɪʃən"},
			},
		},
	}
}

func TestChooseVariant(t *testing.T) {
	threshold := 55

	short := &model.Question{Options: []string{"A", "B", "C"}}
	assert.Equal(t, VariantChoiceRow, ChooseVariant(short, model.TypeComprehension, threshold))

	long := &model.Question{Options: []string{
		strings.Repeat("a very long option ", 3),
		strings.Repeat("another long option ", 3),
	}}
	assert.Equal(t, VariantChoiceList, ChooseVariant(long, model.TypeComprehension, threshold))

	open := &model.Question{}
	assert.Equal(t, VariantTrueFalse, ChooseVariant(open, model.TypeTrueFalse, threshold))
	assert.Equal(t, VariantBlankLines, ChooseVariant(open, model.TypeComprehension, threshold))
	assert.Equal(t, VariantBlankLines, ChooseVariant(open, model.TypeDiscussion, threshold))

	// 带选项的判断题按选项排版，不走 TRUE/FALSE 框
	withOptions := &model.Question{Options: []string{"True", "False"}}
	assert.Equal(t, VariantChoiceRow, ChooseVariant(withOptions, model.TypeTrueFalse, threshold))
}

func TestRenderBasicScenario(t *testing.T) {
	a := sampleActivity()
	theme := ResolveTheme(a.VisualTheme.PrimaryColor)

	res, err := Render(a, theme, Options{
		Scaffolded:          true,
		IncludeTeacherGuide: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.GreaterOrEqual(t, res.Pages, 2, "teacher guide forces a second page")

	kinds := map[BlockKind]int{}
	for _, b := range res.Blocks {
		kinds[b.Kind]++
	}
	assert.Equal(t, 1, kinds[BlockHeader])
	assert.Equal(t, 1, kinds[BlockInstructions])
	assert.Equal(t, 2, kinds[BlockQuestion])
	assert.Equal(t, 1, kinds[BlockGlossary])
	assert.Equal(t, 1, kinds[BlockTeacherGuide])

	out, err := res.Output()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
}

func TestRenderQuestionsNeverSplit(t *testing.T) {
	a := sampleActivity()
	a.Meta.Type = model.TypeComprehension
	a.StudentWorksheet.Questions = nil
	for i := 0; i < 40; i++ {
		a.StudentWorksheet.Questions = append(a.StudentWorksheet.Questions, model.Question{
			UID:          fmt.Sprintf("q-%d", i),
			QuestionText: fmt.Sprintf("Question %d: explain in your own words why the sky appears blue on a clear day.", i+1),
			Hint:         "Consider how light scatters in the atmosphere.",
		})
	}

	res, err := Render(a, ResolveTheme("#4f46e5"), Options{Scaffolded: true})
	require.NoError(t, err)
	assert.Greater(t, res.Pages, 1, "40 open questions must overflow one page")

	for _, b := range res.Blocks {
		if b.Kind != BlockQuestion {
			continue
		}
		assert.LessOrEqualf(t, b.Y+b.Height, contentBottom+0.01,
			"question %d overflows page %d", b.Question, b.Page)
		assert.GreaterOrEqual(t, b.Y, marginTop-0.01)
	}

	// 题目顺序与页码单调
	lastPage := 0
	for _, b := range res.Blocks {
		if b.Kind == BlockQuestion {
			assert.GreaterOrEqual(t, b.Page, lastPage)
			lastPage = b.Page
		}
	}
}

func TestRenderTeacherGuideIsolatedPage(t *testing.T) {
	a := sampleActivity()

	res, err := Render(a, ResolveTheme("#4f46e5"), Options{IncludeTeacherGuide: true})
	require.NoError(t, err)

	var guidePage, lastStudentPage int
	for _, b := range res.Blocks {
		if b.Kind == BlockTeacherGuide {
			guidePage = b.Page
		} else if b.Page > lastStudentPage {
			lastStudentPage = b.Page
		}
	}
	require.NotZero(t, guidePage)
	assert.Greater(t, guidePage, lastStudentPage, "teacher guide never shares a page with student content")
}

func TestRenderWithoutTeacherGuide(t *testing.T) {
	a := sampleActivity()

	res, err := Render(a, ResolveTheme(""), Options{})
	require.NoError(t, err)

	for _, b := range res.Blocks {
		assert.NotEqual(t, BlockTeacherGuide, b.Kind)
	}
	assert.Equal(t, 1, res.Pages)
}

func TestRenderVariantDeterminism(t *testing.T) {
	a := sampleActivity()
	a.Meta.Type = model.TypeComprehension
	a.StudentWorksheet.Questions = []model.Question{
		{UID: "q-1", QuestionText: "Pick one.", Options: []string{"A", "B"}},
		{UID: "q-2", QuestionText: "Pick one.", Options: []string{
			"the first considerably longer option text",
			"the second considerably longer option text",
		}},
	}

	res, err := Render(a, ResolveTheme("#4f46e5"), Options{})
	require.NoError(t, err)

	variants := map[int]Variant{}
	for _, b := range res.Blocks {
		if b.Kind == BlockQuestion {
			variants[b.Question] = b.Variant
		}
	}
	assert.Equal(t, VariantChoiceRow, variants[0])
	assert.Equal(t, VariantChoiceList, variants[1])
}
