// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - MemberWorkflowService: journeys, validation, reports and sync
//   - AdminOverrideService: staff-gated writes with an audit trail
//
// Services are pure Go with no CGO or external dependencies.
package services
