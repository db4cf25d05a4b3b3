package telemetry

import (
	"context"

	"github.com/petasbytes/sandbox-agent/internal/metrics"
)

// FeaturesVersion changes whenever the set of local_features counts does.
const FeaturesVersion = "2"

// EmitLocalFeatures records counts derived from the user's prompt, tagged
// with the turn and session in ctx. The prompt itself is not written.
func EmitLocalFeatures(ctx context.Context, prompt string) {
	if !ObserveEnabled() {
		return
	}
	fields := IDs(ctx)
	fields["features_version"] = FeaturesVersion
	fields["user"] = metrics.CountFeatures(prompt).Map()
	Emit("local_features", fields)
}
