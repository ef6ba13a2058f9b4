package models

import (
	"strconv"
	"strings"
	"time"
)

// Profile is the single financial-profile document stored per user.
// The document is keyed by the user id (_id == userId), which makes the
// one-profile-per-user invariant structural rather than enforced by an
// extra index.
//
// TotalMonthlyExpenses is a view over CustomExpenses: it is never stored
// and is recomputed on every read and write.
type Profile struct {
	UserID                string          `bson:"_id" json:"userId"`
	Age                   *int            `bson:"age,omitempty" json:"age,omitempty"`
	EmploymentStatus      *string         `bson:"employment_status,omitempty" json:"employmentStatus,omitempty"`
	Salary                *float64        `bson:"salary,omitempty" json:"salary,omitempty"`
	HomeOwnership         *string         `bson:"home_ownership,omitempty" json:"homeOwnership,omitempty"`
	HasDebt               *string         `bson:"has_debt,omitempty" json:"hasDebt,omitempty"`
	Lifestyle             *string         `bson:"lifestyle,omitempty" json:"lifestyle,omitempty"`
	RiskTolerance         *int            `bson:"risk_tolerance,omitempty" json:"riskTolerance,omitempty"`
	InvestmentApproach    *int            `bson:"investment_approach,omitempty" json:"investmentApproach,omitempty"`
	EmergencyPreparedness *int            `bson:"emergency_preparedness,omitempty" json:"emergencyPreparedness,omitempty"`
	FinancialTracking     *int            `bson:"financial_tracking,omitempty" json:"financialTracking,omitempty"`
	FutureSecurity        *int            `bson:"future_security,omitempty" json:"futureSecurity,omitempty"`
	SpendingDiscipline    *int            `bson:"spending_discipline,omitempty" json:"spendingDiscipline,omitempty"`
	AssetAllocation       *int            `bson:"asset_allocation,omitempty" json:"assetAllocation,omitempty"`
	RiskTaking            *int            `bson:"risk_taking,omitempty" json:"riskTaking,omitempty"`
	Dependents            *string         `bson:"dependents,omitempty" json:"dependents,omitempty"`
	FinancialGoals        *string         `bson:"financial_goals,omitempty" json:"financialGoals,omitempty"`
	CustomExpenses        []CustomExpense `bson:"custom_expenses" json:"customExpenses"`
	TotalMonthlyExpenses  float64         `bson:"-" json:"totalMonthlyExpenses"`
	LastUpdated           time.Time       `bson:"last_updated" json:"lastUpdated"`
	UpdatedBy             string          `bson:"updated_by" json:"updatedBy"`
}

// CustomExpense is one normalized recurring expense entry.
type CustomExpense struct {
	Name   string  `bson:"name" json:"name"`
	Amount float64 `bson:"amount" json:"amount"`
}

// ComputeTotals recomputes the derived TotalMonthlyExpenses field from
// CustomExpenses. Call after every load and before every response.
func (p *Profile) ComputeTotals() {
	var total float64
	for _, e := range p.CustomExpenses {
		total += e.Amount
	}
	p.TotalMonthlyExpenses = total
}

// ProfileInput is the upsert payload. Every answer is optional so that a
// partially answered questionnaire can still be saved; present values must
// pass the schema rules in the validate tags.
type ProfileInput struct {
	Age                   *int                 `json:"age,omitempty" validate:"omitempty,min=18,max=120"`
	EmploymentStatus      *string              `json:"employmentStatus,omitempty" validate:"omitempty,oneof=Employed Self-employed Unemployed Student Retired"`
	Salary                *float64             `json:"salary,omitempty" validate:"omitempty,min=0"`
	HomeOwnership         *string              `json:"homeOwnership,omitempty" validate:"omitempty,oneof=Own Rent Other"`
	HasDebt               *string              `json:"hasDebt,omitempty" validate:"omitempty,oneof=Yes No"`
	Lifestyle             *string              `json:"lifestyle,omitempty" validate:"omitempty,oneof=Minimalist Balanced Spender"`
	RiskTolerance         *int                 `json:"riskTolerance,omitempty" validate:"omitempty,min=1,max=10"`
	InvestmentApproach    *int                 `json:"investmentApproach,omitempty" validate:"omitempty,min=1,max=10"`
	EmergencyPreparedness *int                 `json:"emergencyPreparedness,omitempty" validate:"omitempty,min=1,max=10"`
	FinancialTracking     *int                 `json:"financialTracking,omitempty" validate:"omitempty,min=1,max=10"`
	FutureSecurity        *int                 `json:"futureSecurity,omitempty" validate:"omitempty,min=1,max=10"`
	SpendingDiscipline    *int                 `json:"spendingDiscipline,omitempty" validate:"omitempty,min=1,max=10"`
	AssetAllocation       *int                 `json:"assetAllocation,omitempty" validate:"omitempty,min=1,max=10"`
	RiskTaking            *int                 `json:"riskTaking,omitempty" validate:"omitempty,min=1,max=10"`
	Dependents            *string              `json:"dependents,omitempty" validate:"omitempty,oneof=Yes No"`
	FinancialGoals        *string              `json:"financialGoals,omitempty" validate:"omitempty,max=1000"`
	CustomExpenses        []CustomExpenseInput `json:"customExpenses,omitempty"`
}

// CustomExpenseInput is one raw expense entry as submitted by a client.
// Amount is untyped because clients historically send either a number or a
// numeric string; NormalizeExpenses coerces it.
type CustomExpenseInput struct {
	Name   string `json:"name"`
	Amount any    `json:"amount"`
}

// NormalizeExpenses filters the raw expense entries down to the
// well-formed ones: names are trimmed and must be non-empty, amounts are
// coerced to numbers and must be >= 0. Everything else is dropped.
func NormalizeExpenses(in []CustomExpenseInput) []CustomExpense {
	out := make([]CustomExpense, 0, len(in))
	for _, e := range in {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		amount, ok := coerceAmount(e.Amount)
		if !ok || amount < 0 {
			continue
		}
		out = append(out, CustomExpense{Name: name, Amount: amount})
	}
	return out
}

func coerceAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToProfile builds the stored document for a full-replace upsert. The
// caller is responsible for validating the input first.
func (in *ProfileInput) ToProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:                userID,
		Age:                   in.Age,
		EmploymentStatus:      in.EmploymentStatus,
		Salary:                in.Salary,
		HomeOwnership:         in.HomeOwnership,
		HasDebt:               in.HasDebt,
		Lifestyle:             in.Lifestyle,
		RiskTolerance:         in.RiskTolerance,
		InvestmentApproach:    in.InvestmentApproach,
		EmergencyPreparedness: in.EmergencyPreparedness,
		FinancialTracking:     in.FinancialTracking,
		FutureSecurity:        in.FutureSecurity,
		SpendingDiscipline:    in.SpendingDiscipline,
		AssetAllocation:       in.AssetAllocation,
		RiskTaking:            in.RiskTaking,
		Dependents:            in.Dependents,
		FinancialGoals:        in.FinancialGoals,
		CustomExpenses:        NormalizeExpenses(in.CustomExpenses),
		LastUpdated:           now,
		UpdatedBy:             userID,
	}
}
