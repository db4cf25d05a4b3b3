// Package runner drives the conversation between the user, the model and the
// tool dispatcher.
//
// Invariants:
//   - every tool call in an assistant turn is answered by exactly one tool
//     result, in order, in the tool message that immediately follows it.
//   - the iteration counter grows once per user submission; at the ceiling
//     the session is exhausted and further submissions never reach the model.
//
// Flow:
//
//	user(text) -> assistant(tool calls) -> tool(results) -> assistant(text)
package runner
