package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// StageTimings holds per-stage durations, captured only when the request
// asked for them.
type StageTimings struct {
	Build   time.Duration `json:"build"`
	Submit  time.Duration `json:"submit"`
	Confirm time.Duration `json:"confirm"`
	Total   time.Duration `json:"total"`
}

// RelayFailure records one losing relay's error for the outcome report.
type RelayFailure struct {
	Relay  string `json:"relay"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// ExecutionOutcome is the result of a winning trade execution.
type ExecutionOutcome struct {
	Signature    solana.Signature `json:"signature"`
	WinningRelay string           `json:"winningRelay"`
	Timings      *StageTimings    `json:"timings,omitempty"`
	Failures     []RelayFailure   `json:"failures,omitempty"`
	Confirmed    bool             `json:"confirmed"`
	Simulated    bool             `json:"simulated"`

	Simulation *SimulationResult `json:"simulation,omitempty"`
}

// SimulationResult mirrors the RPC simulateTransaction response fields the
// engine cares about.
type SimulationResult struct {
	Success              bool     `json:"success"`
	Logs                 []string `json:"logs,omitempty"`
	ComputeUnitsConsumed uint64   `json:"computeUnitsConsumed"`
	Error                string   `json:"error,omitempty"`
}
