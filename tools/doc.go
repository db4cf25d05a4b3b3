// Package tools defines the agent's tool contracts and executes them.
//
// Includes:
//   - Call: a closed set of typed tool calls (GetFilesInfo, GetFileContent,
//     RunPythonFile, WriteFile), decoded and validated by ParseCall.
//   - Declaration and GenerateSchema[T](): JSON Schema advertised to the model.
//   - Result: Ok text or an Err carrying a safety.Kind, always renderable.
//   - Dispatcher: runs calls against the fixed working root, one Result per call.
//   - Invariants: every tool call gets exactly one result, in request order
package tools
