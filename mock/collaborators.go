package mock

import (
	"sync/atomic"

	"github.com/encodeous/nlsrcore/hello"
)

// Signer is a no-op hello.Signer double that stamps a fixed signature.
type Signer struct{}

func (Signer) Sign(data *hello.Data) error {
	data.Signature = []byte("mock-signature")
	return nil
}

// Validator is a hello.Validator double that accepts every Data by default;
// set Reject[name] to force a given name to fail validation.
type Validator struct {
	Reject map[string]bool
}

func (v *Validator) Validate(data hello.Data, onValid func(hello.Data), onInvalid func(hello.Data, string)) {
	if v.Reject != nil && v.Reject[data.Name.String()] {
		onInvalid(data, "rejected by test validator")
		return
	}
	onValid(data)
}

// RoutingHooks is a combined hello.LSDB + hello.RoutingTable double that
// counts how many times each reconvergence hook fired.
type RoutingHooks struct {
	LsdbCalls   atomic.Int32
	RecalcCalls atomic.Int32
}

func (r *RoutingHooks) ScheduleAdjLsaBuild()   { r.LsdbCalls.Add(1) }
func (r *RoutingHooks) ScheduleRecalculation() { r.RecalcCalls.Add(1) }
