// Package app contains the startup orchestrator. It defines the main App
// struct, its configuration, and the two-phase bootstrap lifecycle —
// codec registration followed by verticle deployment — decoupled from any
// specific entrypoint like a CLI.
package app
