// SPDX-License-Identifier: MIT

package gmatch

import "github.com/katalvlaran/mgmatch/matrix"

// StepKind classifies one Frank-Wolfe iteration.
type StepKind int

const (
	// StepInterior blends plan and candidate by the line-search factor.
	StepInterior StepKind = iota
	// StepFull replaces the plan with the candidate permutation.
	StepFull
	// StepConverged means no improving step existed; the loop stopped.
	StepConverged
)

// String returns the step name used in logs and metrics labels.
func (k StepKind) String() string {
	switch k {
	case StepInterior:
		return "interior"
	case StepFull:
		return "full"
	case StepConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// Step records one iteration: its kind, the weight Alpha kept on the current plan
// (P ← αP + (1-α)Q, so 0 for full steps and 1 when converged) and f of the plan after
// the step.
type Step struct {
	Kind      StepKind
	Alpha     float64
	Objective float64
}

// Result is the outcome of one Match run.
//
// Assignment       – ind[i] = world node of template node i (distinct).
// Iterations       – loop iterations executed, including the converging one.
// Converged        – the loop stopped because no improving step existed.
// InitialObjective – f of the starting plan.
// Objective        – f of the final fractional plan.
// Score            – f of the 0/1 plan of Assignment, taken before any decay.
// Trace            – one Step per iteration.
// Plan             – the final fractional plan.
type Result struct {
	Assignment       []int
	Iterations       int
	Converged        bool
	InitialObjective float64
	Objective        float64
	Score            float64
	Trace            []Step
	Plan             *matrix.CSR
}
