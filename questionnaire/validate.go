package questionnaire

import (
	"fmt"
	"strconv"
	"strings"
)

// Validation messages surfaced next to form inputs. Kept as constants so
// the form controller and its tests agree on the exact wording.
const (
	MsgRequired     = "This field is required"
	MsgSelectOption = "Please select an option"
	MsgNotANumber   = "Please enter a number"
	MsgExpenseGroup = "Please fill all expense fields"
	msgMinValue     = "Minimum value is %d"
	msgMaxValue     = "Maximum value is %d"
	msgMaxLength    = "Maximum length is %d characters"
)

// ValidateAnswer checks one raw answer against its question's rule and
// returns an error message, or "" when the answer is acceptable.
//
// Number questions are required and range-checked. Select questions are
// required. Slider answers may be empty (the widget falls back to its
// minimum) but must be an in-range integer when present. Textarea answers
// are optional but length-capped.
func ValidateAnswer(q Question, raw string) string {
	raw = strings.TrimSpace(raw)

	switch q.Type {
	case TypeNumber:
		if raw == "" {
			return MsgRequired
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return MsgNotANumber
		}
		if value < float64(q.Min) {
			return fmt.Sprintf(msgMinValue, q.Min)
		}
		if q.Max > 0 && value > float64(q.Max) {
			return fmt.Sprintf(msgMaxValue, q.Max)
		}
	case TypeSelect:
		if raw == "" {
			return MsgSelectOption
		}
	case TypeSlider:
		if raw == "" {
			return ""
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return MsgNotANumber
		}
		if value < q.Min {
			return fmt.Sprintf(msgMinValue, q.Min)
		}
		if value > q.Max {
			return fmt.Sprintf(msgMaxValue, q.Max)
		}
	case TypeTextarea:
		if len(raw) > MaxGoalsLength {
			return fmt.Sprintf(msgMaxLength, MaxGoalsLength)
		}
	}
	return ""
}
