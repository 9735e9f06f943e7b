// Package config defines the format-agnostic startup configuration model
// consumed by the orchestrator, and the Loader interface a concrete format
// (HCL, see internal/hclconf) implements.
package config
