// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MemberAPI: the JustGo remote API (implemented by connectors/justgo)
//   - TokenStore: shared access token cache (memory or redis)
//   - LocalUserStore: the local user model sync writes to (memory or sqlite)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AuditLogger: admin override audit trail. Without it, overrides are
//     logged to the process logger only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
