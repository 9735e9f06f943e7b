// Package deploy implements the deployment coordinator: the second
// bootstrap phase, which starts the configured verticles in dependency
// order and reports the combined outcome through a one-shot future.
//
// The coordinator never retries a failed verticle and never rolls back
// ones that already started; interpretation of a failure (fatal or
// degraded-but-alive) belongs to the startup orchestrator.
package deploy
