package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"financial-advisor/api/models"
	"financial-advisor/api/questionnaire"
)

// fakeService is an in-memory ProfileService that echoes upserts back the
// way the real server does: normalized, audited, totals recomputed.
type fakeService struct {
	mu        sync.Mutex
	profile   *models.Profile
	upserts   []models.ProfileInput
	getErr    error
	upsertErr error
	deleteErr error

	// When set, Upsert signals started and then blocks until released.
	started  chan struct{}
	released chan struct{}
}

func (f *fakeService) GetLatest(ctx context.Context) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profile, nil
}

func (f *fakeService) Upsert(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.released
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, in)
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	p := in.ToProfile("user-1", time.Now().UTC())
	p.ComputeTotals()
	f.profile = p
	return p, nil
}

func (f *fakeService) Delete(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.profile = nil
	return nil
}

func (f *fakeService) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func existingProfile() *models.Profile {
	age := 30
	status := "Employed"
	salary := 5000.0
	p := &models.Profile{
		UserID:           "user-1",
		Age:              &age,
		EmploymentStatus: &status,
		Salary:           &salary,
		CustomExpenses:   []models.CustomExpense{{Name: "Netflix", Amount: 15}},
	}
	p.ComputeTotals()
	return p
}

func TestInitialModeWithoutProfile(t *testing.T) {
	c := NewController(&fakeService{})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Mode() != ModeStepThrough {
		t.Errorf("expected StepThrough, got %v", c.Mode())
	}
	if c.Step() != 0 {
		t.Errorf("expected step 0, got %d", c.Step())
	}
}

func TestLoadExistingSwitchesToViewAndAppliesOnce(t *testing.T) {
	c := NewController(&fakeService{profile: existingProfile()})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Mode() != ModeViewSubmitted {
		t.Fatalf("expected ViewSubmitted, got %v", c.Mode())
	}
	if c.Answer("age") != "30" {
		t.Errorf("expected age answer 30, got %q", c.Answer("age"))
	}
	if got := c.Expenses(); len(got) != 1 || got[0].Name != "Netflix" {
		t.Errorf("expected Netflix expense draft, got %+v", got)
	}

	// An in-progress edit must survive a background refetch.
	c.BeginEditAll()
	c.SetAnswer("age", "45")
	refetched := existingProfile()
	c.LoadExisting(refetched)
	if c.Answer("age") != "45" {
		t.Errorf("refetch clobbered in-progress edit: age = %q", c.Answer("age"))
	}
	if c.Mode() != ModeEditAll {
		t.Errorf("refetch changed mode to %v", c.Mode())
	}
}

func TestScenarioAnswerValidationAndStepping(t *testing.T) {
	c := NewController(&fakeService{})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	c.SetAnswer("age", "15")
	if msg := c.ValidationError("age"); msg != "Minimum value is 18" {
		t.Errorf("expected minimum message, got %q", msg)
	}
	// Invalid input stays visible and editable.
	if c.Answer("age") != "15" {
		t.Errorf("expected raw value kept, got %q", c.Answer("age"))
	}

	c.AdvanceStep()
	if c.Step() != 0 {
		t.Errorf("invalid answer must not advance, step = %d", c.Step())
	}

	c.SetAnswer("age", "25")
	if msg := c.ValidationError("age"); msg != "" {
		t.Errorf("expected no error, got %q", msg)
	}
	c.AdvanceStep()
	if c.Step() != 1 {
		t.Errorf("expected step 1, got %d", c.Step())
	}
}

func TestAdvanceStepGateOnEmptyRequired(t *testing.T) {
	c := NewController(&fakeService{})

	c.AdvanceStep()
	if c.Step() != 0 {
		t.Errorf("expected step unchanged, got %d", c.Step())
	}
	if msg := c.ValidationError("age"); msg != questionnaire.MsgRequired {
		t.Errorf("expected required message, got %q", msg)
	}
}

func TestRetreatStepSkipsValidationAndClamps(t *testing.T) {
	c := NewController(&fakeService{})
	c.RetreatStep()
	if c.Step() != 0 {
		t.Errorf("expected step clamped at 0, got %d", c.Step())
	}

	c.SetAnswer("age", "25")
	c.AdvanceStep()
	c.RetreatStep()
	if c.Step() != 0 {
		t.Errorf("expected step 0, got %d", c.Step())
	}
	if msg := c.ValidationError("employmentStatus"); msg != "" {
		t.Errorf("retreat must not validate, got %q", msg)
	}
}

func TestCompletionPercent(t *testing.T) {
	c := NewController(&fakeService{})
	if c.CompletionPercent() != 0 {
		t.Fatalf("expected 0%%, got %d", c.CompletionPercent())
	}

	c.SetAnswer("age", "25")
	c.SetAnswer("employmentStatus", "Employed")
	c.SetAnswer("salary", "5000")
	c.SetAnswer("homeOwnership", "Rent")
	if c.CompletionPercent() != 25 {
		t.Errorf("expected 25%% after 4 of 16 answers, got %d", c.CompletionPercent())
	}

	c.SetAnswer("hasDebt", "Yes")
	c.SetAnswer("lifestyle", "Balanced")
	c.SetAnswer("dependents", "No")
	c.SetAnswer("financialGoals", "Retire early")
	if c.CompletionPercent() != 50 {
		t.Errorf("expected 50%%, got %d", c.CompletionPercent())
	}
}

func TestSubmitEditAllSurfacesEveryError(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)
	c.BeginEditAll()

	err := c.Submit(context.Background())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if svc.upsertCount() != 0 {
		t.Fatal("server must not be called on validation failure")
	}

	// Two number questions and five selects are required; sliders and
	// the textarea tolerate empty answers.
	for _, id := range []string{"age", "salary"} {
		if c.ValidationError(id) != questionnaire.MsgRequired {
			t.Errorf("expected required error for %s, got %q", id, c.ValidationError(id))
		}
	}
	for _, id := range []string{"employmentStatus", "homeOwnership", "hasDebt", "lifestyle", "dependents"} {
		if c.ValidationError(id) != questionnaire.MsgSelectOption {
			t.Errorf("expected select error for %s, got %q", id, c.ValidationError(id))
		}
	}
	if c.ValidationError("riskTolerance") != "" {
		t.Errorf("slider must not error when empty, got %q", c.ValidationError("riskTolerance"))
	}
}

func TestSubmitEditOneValidatesOnlyThatQuestion(t *testing.T) {
	svc := &fakeService{profile: existingProfile()}
	c := NewController(svc)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	c.BeginEditQuestion(0)
	c.SetAnswer("age", "41")
	// Clear an unrelated answer; EditOne must not validate it.
	c.SetAnswer("employmentStatus", "")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if c.Mode() != ModeViewSubmitted {
		t.Errorf("expected ViewSubmitted after submit, got %v", c.Mode())
	}
	if c.Answer("age") != "41" {
		t.Errorf("expected server-confirmed age 41, got %q", c.Answer("age"))
	}
	if svc.upsertCount() != 1 {
		t.Errorf("expected one upsert, got %d", svc.upsertCount())
	}
}

func TestSubmitStepThroughValidatesCurrentQuestion(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)

	if err := c.Submit(context.Background()); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for empty current question, got %v", err)
	}

	c.SetAnswer("age", "25")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if svc.upsertCount() != 1 {
		t.Errorf("expected one upsert, got %d", svc.upsertCount())
	}
}

func TestExpenseGroupValidation(t *testing.T) {
	t.Run("half_filled_row_blocks", func(t *testing.T) {
		svc := &fakeService{}
		c := NewController(svc)
		c.SetAnswer("age", "25")
		c.AddCustomExpense()
		c.UpdateCustomExpense(0, "name", "Gym")

		err := c.Submit(context.Background())
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if c.ValidationError("customExpenses") != questionnaire.MsgExpenseGroup {
			t.Errorf("expected expense group error, got %q", c.ValidationError("customExpenses"))
		}
		if svc.upsertCount() != 0 {
			t.Error("server must not be called")
		}
	})

	t.Run("empty_row_is_filtered_not_blocked", func(t *testing.T) {
		svc := &fakeService{}
		c := NewController(svc)
		c.SetAnswer("age", "25")
		c.AddCustomExpense() // left fully empty

		if err := c.Submit(context.Background()); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if len(svc.upserts[0].CustomExpenses) != 0 {
			t.Errorf("expected empty row filtered, got %+v", svc.upserts[0].CustomExpenses)
		}
	})
}

func TestSubmitFiltersMalformedExpenses(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)
	c.SetAnswer("age", "25")

	c.AddCustomExpense()
	c.UpdateCustomExpense(0, "name", "Netflix")
	c.UpdateCustomExpense(0, "amount", "15")
	c.AddCustomExpense()
	c.UpdateCustomExpense(1, "name", "Gym")
	c.UpdateCustomExpense(1, "amount", "abc")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	sent := svc.upserts[0].CustomExpenses
	if len(sent) != 1 {
		t.Fatalf("expected 1 well-formed expense, got %+v", sent)
	}
	if sent[0].Name != "Netflix" {
		t.Errorf("expected Netflix, got %+v", sent[0])
	}
}

func TestSubmitFailureLeavesDraftIntact(t *testing.T) {
	svc := &fakeService{upsertErr: errors.New("network down")}
	c := NewController(svc)
	c.BeginEditAll()
	fillValidForm(c)
	c.SetAnswer("financialGoals", "Buy a house")

	err := c.Submit(context.Background())
	if err == nil || errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if c.Mode() != ModeEditAll {
		t.Errorf("mode must not change on failure, got %v", c.Mode())
	}
	if c.Answer("financialGoals") != "Buy a house" {
		t.Errorf("draft lost on failure: %q", c.Answer("financialGoals"))
	}
}

func TestSubmitReplacesDraftWithServerCopy(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)
	c.BeginEditAll()
	fillValidForm(c)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if c.Mode() != ModeViewSubmitted {
		t.Errorf("expected ViewSubmitted, got %v", c.Mode())
	}
	// The fake echoes the payload back as the authoritative copy.
	if c.Answer("salary") != "5000" {
		t.Errorf("expected server salary 5000, got %q", c.Answer("salary"))
	}
}

func TestOnlyOneSubmissionInFlight(t *testing.T) {
	svc := &fakeService{
		started:  make(chan struct{}, 1),
		released: make(chan struct{}),
	}
	c := NewController(svc)
	c.SetAnswer("age", "25")

	done := make(chan error, 1)
	go func() {
		done <- c.Submit(context.Background())
	}()
	<-svc.started

	// Second submit while the first is pending is ignored.
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("expected ignored submit to return nil, got %v", err)
	}

	close(svc.released)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if svc.upsertCount() != 1 {
		t.Errorf("expected exactly one upsert, got %d", svc.upsertCount())
	}
}

func TestDeleteProfileResetsController(t *testing.T) {
	svc := &fakeService{profile: existingProfile()}
	c := NewController(svc)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := c.DeleteProfile(context.Background()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if c.Mode() != ModeStepThrough || c.Step() != 0 {
		t.Errorf("expected fresh StepThrough(0), got %v(%d)", c.Mode(), c.Step())
	}
	if c.Answer("age") != "" {
		t.Errorf("expected cleared answers, got age %q", c.Answer("age"))
	}
	if c.CompletionPercent() != 0 {
		t.Errorf("expected 0%% completion, got %d", c.CompletionPercent())
	}
}

func fillValidForm(c *Controller) {
	c.SetAnswer("age", "30")
	c.SetAnswer("employmentStatus", "Employed")
	c.SetAnswer("salary", "5000")
	c.SetAnswer("homeOwnership", "Rent")
	c.SetAnswer("hasDebt", "No")
	c.SetAnswer("lifestyle", "Balanced")
	c.SetAnswer("dependents", "No")
}
