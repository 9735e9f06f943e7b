// Package promise provides the one-shot readiness signal reported by the
// startup orchestrator to the supervisor that invoked it.
//
// The supervisor creates the pair, hands the Promise to the orchestrator and
// keeps the Future. The orchestrator's only write access to the signal is a
// single terminal Complete or Fail; a second resolution attempt is absorbed
// by the Promise rather than corrupting the observed outcome.
package promise
