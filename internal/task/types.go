// Package task defines the closed set of worksheet task shapes and parses
// untrusted generator output into them.
package task

// Kind is the JSON discriminant that selects a task variant.
type Kind string

const (
	KindSingleChoice   Kind = "single_choice"
	KindMultipleChoice Kind = "multiple_choice"
	KindOpenQuestion   Kind = "open_question"
	KindMatching       Kind = "matching"
	KindFillBlank      Kind = "fill_blank"
)

// Kinds lists every supported discriminant in declaration order.
var Kinds = []Kind{
	KindSingleChoice,
	KindMultipleChoice,
	KindOpenQuestion,
	KindMatching,
	KindFillBlank,
}

// Task is one parsed worksheet exercise. The set of implementations is
// closed: only the five variant types in this package satisfy it.
type Task interface {
	// Kind returns the discriminant the task was parsed from.
	Kind() Kind

	sealed()
}

// SingleChoice is a question with one correct option.
type SingleChoice struct {
	Question string `json:"question"`

	// Options holds 3 to 6 answer choices shown in order.
	Options []string `json:"options"`

	// CorrectIndex is the zero-based index of the right option.
	CorrectIndex int `json:"correctIndex"`
}

// MultipleChoice is a question with exactly five options and two or more
// correct ones.
type MultipleChoice struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectIndices []int    `json:"correctIndices"`
}

// OpenQuestion expects a free-text answer.
type OpenQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Pair is a (left index, right index) link of a Matching task.
type Pair [2]int

// Left returns the left column index.
func (p Pair) Left() int { return p[0] }

// Right returns the right column index.
func (p Pair) Right() int { return p[1] }

// Matching asks the learner to connect items of two columns.
type Matching struct {
	Instruction  string   `json:"instruction"`
	LeftColumn   []string `json:"leftColumn"`
	RightColumn  []string `json:"rightColumn"`
	CorrectPairs []Pair   `json:"correctPairs"`
}

// Blank is the expected answer for one ___(N)___ marker.
type Blank struct {
	Position      int    `json:"position"`
	CorrectAnswer string `json:"correctAnswer"`
}

// FillBlank is a text with numbered gaps, e.g. "2 + 2 = ___(1)___".
type FillBlank struct {
	TextWithBlanks string  `json:"textWithBlanks"`
	Blanks         []Blank `json:"blanks"`
}

func (*SingleChoice) Kind() Kind   { return KindSingleChoice }
func (*MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (*OpenQuestion) Kind() Kind   { return KindOpenQuestion }
func (*Matching) Kind() Kind       { return KindMatching }
func (*FillBlank) Kind() Kind      { return KindFillBlank }

func (*SingleChoice) sealed()   {}
func (*MultipleChoice) sealed() {}
func (*OpenQuestion) sealed()   {}
func (*Matching) sealed()       {}
func (*FillBlank) sealed()      {}
