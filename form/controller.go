// Package form implements the profile questionnaire controller: the
// working copy of a user's answers, the edit-mode state machine, and the
// submission flow against the profile API.
package form

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"financial-advisor/api/models"
	"financial-advisor/api/questionnaire"
)

// Mode is the controller's edit-mode state.
type Mode int

const (
	// ModeStepThrough walks the user through the questions one at a
	// time. Initial mode when no profile exists yet.
	ModeStepThrough Mode = iota
	// ModeViewSubmitted shows the server-confirmed profile read-only.
	ModeViewSubmitted
	// ModeEditAll edits every question at once.
	ModeEditAll
	// ModeEditOne edits a single question.
	ModeEditOne
)

// ErrValidationFailed is returned by Submit when the working copy fails
// validation. The per-question messages are available via Errors.
var ErrValidationFailed = errors.New("form has validation errors")

// ExpenseDraft is one in-progress custom expense row. Both fields are
// kept raw so invalid input stays visible and editable.
type ExpenseDraft struct {
	Name   string
	Amount string
}

// ProfileService is the profile API as seen by the controller. GetLatest
// returns (nil, nil) when the user has no profile yet.
type ProfileService interface {
	GetLatest(ctx context.Context) (*models.Profile, error)
	Upsert(ctx context.Context, in models.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context) error
}

// Controller owns the local draft of a user's financial profile. The
// draft is only replaced by server state after a confirmed successful
// submission, never speculatively.
type Controller struct {
	svc       ProfileService
	questions []questionnaire.Question

	mu         sync.Mutex
	answers    map[string]string
	expenses   []ExpenseDraft
	errors     map[string]string
	mode       Mode
	step       int
	editIndex  int
	completion int
	loaded     bool
	submitting bool
}

// NewController creates a controller in StepThrough mode at the first
// question. The profile service is injected rather than read from any
// ambient state.
func NewController(svc ProfileService) *Controller {
	return &Controller{
		svc:       svc,
		questions: questionnaire.Questions(),
		answers:   make(map[string]string),
		errors:    make(map[string]string),
		mode:      ModeStepThrough,
	}
}

// Load fetches the user's existing profile and, if one exists, populates
// the working copy from it. Safe to call on every mount; only the first
// call takes effect so background refetches cannot clobber edits.
func (c *Controller) Load(ctx context.Context) error {
	profile, err := c.svc.GetLatest(ctx)
	if err != nil {
		return err
	}
	c.LoadExisting(profile)
	return nil
}

// LoadExisting seeds the working copy from a server profile. A nil
// profile means the user has none yet and leaves StepThrough mode in
// place. Subsequent calls are no-ops.
func (c *Controller) LoadExisting(profile *models.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.loaded = true
	if profile == nil {
		return
	}
	c.applyProfileLocked(profile)
	c.mode = ModeViewSubmitted
}

// Mode returns the current edit mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Step returns the current StepThrough question index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// EditIndex returns the question index being edited in EditOne mode.
func (c *Controller) EditIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editIndex
}

// Answer returns the raw working-copy value for a question.
func (c *Controller) Answer(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers[id]
}

// ValidationError returns the message for a question, or "".
func (c *Controller) ValidationError(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[id]
}

// CompletionPercent reports answered fixed questions over total fixed
// questions, as a rounded percentage.
func (c *Controller) CompletionPercent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completion
}

// Expenses returns a copy of the custom expense drafts.
func (c *Controller) Expenses() []ExpenseDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ExpenseDraft, len(c.expenses))
	copy(out, c.expenses)
	return out
}

// SetAnswer validates and records a raw answer. The value is stored even
// when invalid; validation blocks submission, not entry.
func (c *Controller) SetAnswer(id, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := questionnaire.ByID(id)
	if !ok {
		return
	}
	if msg := questionnaire.ValidateAnswer(q, raw); msg != "" {
		c.errors[id] = msg
	} else {
		delete(c.errors, id)
	}
	c.answers[id] = raw
	c.recomputeCompletionLocked()
}

// AdvanceStep validates the current question and, when it passes, moves
// to the next one. The index never leaves [0, last].
func (c *Controller) AdvanceStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeStepThrough {
		return
	}
	q := c.questions[c.step]
	if msg := questionnaire.ValidateAnswer(q, c.answers[q.ID]); msg != "" {
		c.errors[q.ID] = msg
		return
	}
	delete(c.errors, q.ID)
	if c.step < len(c.questions)-1 {
		c.step++
	}
}

// RetreatStep moves back one question without validating.
func (c *Controller) RetreatStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeStepThrough {
		return
	}
	if c.step > 0 {
		c.step--
	}
}

// BeginEditAll switches to bulk edit of every question.
func (c *Controller) BeginEditAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeEditAll
}

// BeginEditQuestion switches to editing a single question.
func (c *Controller) BeginEditQuestion(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.questions) {
		return
	}
	c.mode = ModeEditOne
	c.editIndex = index
}

// CancelEdit abandons an edit and returns to the submitted view.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeEditAll || c.mode == ModeEditOne {
		c.mode = ModeViewSubmitted
	}
}

// AddCustomExpense appends an empty expense row.
func (c *Controller) AddCustomExpense() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expenses = append(c.expenses, ExpenseDraft{})
}

// RemoveCustomExpense deletes the expense row at index.
func (c *Controller) RemoveCustomExpense(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.expenses) {
		return
	}
	c.expenses = append(c.expenses[:index], c.expenses[index+1:]...)
}

// UpdateCustomExpense sets one field ("name" or "amount") of an expense
// row.
func (c *Controller) UpdateCustomExpense(index int, field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.expenses) {
		return
	}
	switch field {
	case "name":
		c.expenses[index].Name = value
	case "amount":
		c.expenses[index].Amount = value
	}
}

// Submit validates the working copy according to the current mode and, on
// success, upserts it and replaces the draft with the server's
// authoritative copy. A failed submission leaves the draft and mode
// untouched. At most one submission is in flight at a time; extra calls
// are ignored.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}

	errs := c.validateForSubmitLocked()
	if len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		return ErrValidationFailed
	}

	input := c.buildInputLocked()
	c.submitting = true
	c.mu.Unlock()

	profile, err := c.svc.Upsert(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return err
	}
	c.applyProfileLocked(profile)
	c.mode = ModeViewSubmitted
	return nil
}

// DeleteProfile removes the user's profile and resets the controller to
// an empty questionnaire.
func (c *Controller) DeleteProfile(ctx context.Context) error {
	if err := c.svc.Delete(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers = make(map[string]string)
	c.expenses = nil
	c.errors = make(map[string]string)
	c.mode = ModeStepThrough
	c.step = 0
	c.recomputeCompletionLocked()
	return nil
}

func (c *Controller) validateForSubmitLocked() map[string]string {
	errs := make(map[string]string)

	switch c.mode {
	case ModeEditAll:
		for _, q := range c.questions {
			if msg := questionnaire.ValidateAnswer(q, c.answers[q.ID]); msg != "" {
				errs[q.ID] = msg
			}
		}
	case ModeEditOne:
		q := c.questions[c.editIndex]
		if msg := questionnaire.ValidateAnswer(q, c.answers[q.ID]); msg != "" {
			errs[q.ID] = msg
		}
	default:
		q := c.questions[c.step]
		if msg := questionnaire.ValidateAnswer(q, c.answers[q.ID]); msg != "" {
			errs[q.ID] = msg
		}
	}

	if msg := validateExpenseGroup(c.expenses); msg != "" {
		errs["customExpenses"] = msg
	}
	return errs
}

// validateExpenseGroup flags rows where exactly one of name/amount was
// filled in. Fully empty rows are tolerated and filtered on submit.
func validateExpenseGroup(drafts []ExpenseDraft) string {
	for _, d := range drafts {
		name := strings.TrimSpace(d.Name)
		amount := strings.TrimSpace(d.Amount)
		if (name == "") != (amount == "") {
			return questionnaire.MsgExpenseGroup
		}
	}
	return ""
}

func (c *Controller) buildInputLocked() models.ProfileInput {
	in := models.ProfileInput{
		Age:                   c.intAnswer("age"),
		EmploymentStatus:      c.strAnswer("employmentStatus"),
		Salary:                c.floatAnswer("salary"),
		HomeOwnership:         c.strAnswer("homeOwnership"),
		HasDebt:               c.strAnswer("hasDebt"),
		Lifestyle:             c.strAnswer("lifestyle"),
		RiskTolerance:         c.intAnswer("riskTolerance"),
		InvestmentApproach:    c.intAnswer("investmentApproach"),
		EmergencyPreparedness: c.intAnswer("emergencyPreparedness"),
		FinancialTracking:     c.intAnswer("financialTracking"),
		FutureSecurity:        c.intAnswer("futureSecurity"),
		SpendingDiscipline:    c.intAnswer("spendingDiscipline"),
		AssetAllocation:       c.intAnswer("assetAllocation"),
		RiskTaking:            c.intAnswer("riskTaking"),
		Dependents:            c.strAnswer("dependents"),
		FinancialGoals:        c.strAnswer("financialGoals"),
	}

	for _, d := range c.expenses {
		name := strings.TrimSpace(d.Name)
		amount, err := strconv.ParseFloat(strings.TrimSpace(d.Amount), 64)
		if name == "" || err != nil || amount < 0 {
			continue
		}
		in.CustomExpenses = append(in.CustomExpenses, models.CustomExpenseInput{
			Name:   name,
			Amount: amount,
		})
	}
	return in
}

func (c *Controller) strAnswer(id string) *string {
	raw := strings.TrimSpace(c.answers[id])
	if raw == "" {
		return nil
	}
	return &raw
}

func (c *Controller) intAnswer(id string) *int {
	raw := strings.TrimSpace(c.answers[id])
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func (c *Controller) floatAnswer(id string) *float64 {
	raw := strings.TrimSpace(c.answers[id])
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// applyProfileLocked replaces the working copy with a server document.
func (c *Controller) applyProfileLocked(p *models.Profile) {
	answers := make(map[string]string)
	setInt := func(id string, v *int) {
		if v != nil {
			answers[id] = strconv.Itoa(*v)
		}
	}
	setStr := func(id string, v *string) {
		if v != nil {
			answers[id] = *v
		}
	}

	setInt("age", p.Age)
	setStr("employmentStatus", p.EmploymentStatus)
	if p.Salary != nil {
		answers["salary"] = strconv.FormatFloat(*p.Salary, 'f', -1, 64)
	}
	setStr("homeOwnership", p.HomeOwnership)
	setStr("hasDebt", p.HasDebt)
	setStr("lifestyle", p.Lifestyle)
	setInt("riskTolerance", p.RiskTolerance)
	setInt("investmentApproach", p.InvestmentApproach)
	setInt("emergencyPreparedness", p.EmergencyPreparedness)
	setInt("financialTracking", p.FinancialTracking)
	setInt("futureSecurity", p.FutureSecurity)
	setInt("spendingDiscipline", p.SpendingDiscipline)
	setInt("assetAllocation", p.AssetAllocation)
	setInt("riskTaking", p.RiskTaking)
	setStr("dependents", p.Dependents)
	setStr("financialGoals", p.FinancialGoals)

	expenses := make([]ExpenseDraft, 0, len(p.CustomExpenses))
	for _, e := range p.CustomExpenses {
		expenses = append(expenses, ExpenseDraft{
			Name:   e.Name,
			Amount: strconv.FormatFloat(e.Amount, 'f', -1, 64),
		})
	}

	c.answers = answers
	c.expenses = expenses
	c.errors = make(map[string]string)
	c.recomputeCompletionLocked()
}

func (c *Controller) recomputeCompletionLocked() {
	answered := 0
	for _, q := range c.questions {
		if strings.TrimSpace(c.answers[q.ID]) != "" {
			answered++
		}
	}
	c.completion = int(math.Round(float64(answered) / float64(len(c.questions)) * 100))
}
