package gateway

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// InstallmentPlan is a fixed schedule for splitting a booking total
// into monthly charges. Plans are static configuration, not persisted.
type InstallmentPlan struct {
	ID            string
	Name          string
	Installments  int
	InterestRate  float64 // percent of the total
	ProcessingFee float64
	MinAmount     float64
	MaxAmount     float64
}

// DefaultPlans are the marketplace's published schedules. Ranges must
// not overlap per installment count: plan lookup requires exactly one
// match.
var DefaultPlans = []InstallmentPlan{
	{ID: "WP3", Name: "3-month plan", Installments: 3, InterestRate: 0, ProcessingFee: 500, MinAmount: 15_000, MaxAmount: 300_000},
	{ID: "WP6", Name: "6-month plan", Installments: 6, InterestRate: 3.5, ProcessingFee: 750, MinAmount: 60_000, MaxAmount: 600_000},
	{ID: "WP12", Name: "12-month plan", Installments: 12, InterestRate: 5, ProcessingFee: 1000, MinAmount: 100_000, MaxAmount: 1_200_000},
}

// FindPlan returns the single plan covering (installments, amount).
// Zero or multiple matches are both lookup failures.
func FindPlan(plans []InstallmentPlan, installments int, amount float64) (*InstallmentPlan, error) {
	var found *InstallmentPlan
	for i := range plans {
		p := &plans[i]
		if p.Installments != installments {
			continue
		}
		if amount < p.MinAmount || amount > p.MaxAmount {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %d installments at %.2f matches both %s and %s",
				ErrNoInstallmentPlan, installments, amount, found.ID, p.ID)
		}
		found = p
	}
	if found == nil {
		return nil, fmt.Errorf("%w for %d installments at amount %.2f",
			ErrNoInstallmentPlan, installments, amount)
	}
	return found, nil
}

// MonthlyPayment spreads the total plus interest and processing fee
// across the plan, rounding each installment up to the next rupee.
func MonthlyPayment(totalAmount float64, plan *InstallmentPlan) float64 {
	payable := totalAmount + totalAmount*plan.InterestRate/100 + plan.ProcessingFee
	return math.Ceil(payable / float64(plan.Installments))
}

// CreateInstallmentPayment looks up the plan for the request total and
// charges the first monthly installment through PayHere. The order id
// carries the plan so webhook notifications can be tied back to it.
func (g *Gateway) CreateInstallmentPayment(ctx context.Context, req *PaymentRequest, installments int) *PaymentResponse {
	if req.Amount <= 0 {
		return failure("%v", ErrInvalidAmount)
	}
	if len(req.Currency) != 3 {
		return failure("%v", ErrInvalidCurrency)
	}

	plan, err := FindPlan(g.plans, installments, req.Amount)
	if err != nil {
		return failure("%v", err)
	}

	monthly := MonthlyPayment(req.Amount, plan)

	monthlyReq := *req
	monthlyReq.Amount = monthly
	monthlyReq.OrderID = req.OrderID + "_INST_" + plan.ID
	monthlyReq.Method = MethodPayHere
	monthlyReq.Description = fmt.Sprintf("%s (%s, %d x %.2f)", req.Description, plan.Name, plan.Installments, monthly)

	resp := g.payhere.CreatePayment(ctx, &monthlyReq)
	if !resp.Success {
		return resp
	}

	if resp.Metadata == nil {
		resp.Metadata = map[string]any{}
	}
	resp.Metadata["plan_id"] = plan.ID
	resp.Metadata["installments"] = strconv.Itoa(plan.Installments)
	resp.Metadata["monthly_payment"] = monthly
	resp.Metadata["total_payable"] = monthly * float64(plan.Installments)
	return resp
}
