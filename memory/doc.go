// Package memory holds the provider-neutral conversation model and its
// persistence.
//
// A conversation is an ordered slice of Messages. Each Message has a role
// (user, assistant or tool) and ordered Parts; a Part is text, a tool call
// requested by the assistant, or the result answering such a call. Adapters in
// internal/provider translate this model to and from each vendor's wire types.
//
// Persistence stores the full history, tool parts included, as indented JSON.
package memory
