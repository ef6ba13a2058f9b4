// Package questionnaire defines the fixed, ordered question schema shared
// by the form controller and the API. Question ids match the wire field
// names of the profile document.
package questionnaire

// QuestionType selects the input widget and the validation rule for a
// question.
type QuestionType string

const (
	TypeNumber   QuestionType = "number"
	TypeSelect   QuestionType = "select"
	TypeSlider   QuestionType = "slider"
	TypeTextarea QuestionType = "textarea"
)

// Question is one entry of the questionnaire.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Min         int          `json:"min,omitempty"`
	Max         int          `json:"max,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Labels      [2]string    `json:"labels,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// MaxGoalsLength caps the free-text financial goals answer.
const MaxGoalsLength = 1000

var questions = []Question{
	{ID: "age", Text: "What's your age?", Type: TypeNumber, Min: 18, Max: 120},
	{
		ID:      "employmentStatus",
		Text:    "What's your employment status?",
		Type:    TypeSelect,
		Options: []string{"Employed", "Self-employed", "Unemployed", "Student", "Retired"},
	},
	{ID: "salary", Text: "Your Salary?", Type: TypeNumber, Min: 0},
	{
		ID:      "homeOwnership",
		Text:    "Do you own or rent your home?",
		Type:    TypeSelect,
		Options: []string{"Own", "Rent", "Other"},
	},
	{
		ID:      "hasDebt",
		Text:    "Do you currently have any debts?",
		Type:    TypeSelect,
		Options: []string{"Yes", "No"},
	},
	{
		ID:      "lifestyle",
		Text:    "What type of lifestyle best describes you?",
		Type:    TypeSelect,
		Options: []string{"Minimalist", "Balanced", "Spender"},
	},
	{
		ID:     "riskTolerance",
		Text:   "How comfortable are you with unpredictable situations?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Very Uncomfortable", "Very Comfortable"},
	},
	{
		ID:     "investmentApproach",
		Text:   "How do you usually handle a surplus of money?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Spend It", "Invest It"},
	},
	{
		ID:     "emergencyPreparedness",
		Text:   "If a major unexpected expense arises, how prepared do you feel?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Not Prepared", "Very Prepared"},
	},
	{
		ID:     "financialTracking",
		Text:   "How often do you research financial trends?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Never", "Daily"},
	},
	{
		ID:     "futureSecurity",
		Text:   "How much do you prioritize future financial security over present comfort?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Present Comfort", "Future Security"},
	},
	{
		ID:     "spendingDiscipline",
		Text:   "How easily do you say 'no' to unplanned purchases?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Very Difficult", "Very Easy"},
	},
	{
		ID:     "assetAllocation",
		Text:   "If given a large sum of money today, how much would you allocate toward long-term assets?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"None", "All"},
	},
	{
		ID:     "riskTaking",
		Text:   "When it comes to financial risks, where do you stand?",
		Type:   TypeSlider,
		Min:    1,
		Max:    10,
		Labels: [2]string{"Risk Averse", "Risk Seeking"},
	},
	{
		ID:      "dependents",
		Text:    "Do you have dependents (children, elderly, etc.)?",
		Type:    TypeSelect,
		Options: []string{"Yes", "No"},
	},
	{
		ID:          "financialGoals",
		Text:        "Briefly describe your primary financial goals:",
		Type:        TypeTextarea,
		Placeholder: "E.g., Save for retirement, buy a home, pay off debt...",
	},
}

// Questions returns the ordered question list. The slice is shared; do
// not mutate it.
func Questions() []Question {
	return questions
}

// ByID looks a question up by its id.
func ByID(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
