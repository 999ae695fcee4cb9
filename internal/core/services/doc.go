// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go and depend only on ports, so every service can be
// exercised with the in-memory adapters.
package services
