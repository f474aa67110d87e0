package domain

import "fmt"

// StockMode selects which mechanism decrements product stock on a sale.
type StockMode string

const (
	StockModeApplication StockMode = "application"
	StockModeTrigger     StockMode = "trigger"
)

type StockPolicy string

const (
	StockPolicyAllow  StockPolicy = "allow"
	StockPolicyReject StockPolicy = "reject"
	StockPolicyClamp  StockPolicy = "clamp"
)

type StockSettings struct {
	Mode   StockMode
	Policy StockPolicy
}

func (s StockSettings) Validate() error {
	switch s.Mode {
	case StockModeApplication, StockModeTrigger:
	default:
		return fmt.Errorf("unknown stock mode %q", s.Mode)
	}
	switch s.Policy {
	case StockPolicyAllow, StockPolicyReject, StockPolicyClamp:
	default:
		return fmt.Errorf("unknown stock policy %q", s.Policy)
	}
	if s.Mode == StockModeTrigger && s.Policy != StockPolicyAllow {
		return fmt.Errorf("stock policy %q requires %q mode", s.Policy, StockModeApplication)
	}
	return nil
}
