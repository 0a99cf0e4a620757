// Package hooks provides the named extension points invoked at fixed
// pipeline positions. Hook commands come from configuration and run as
// shell commands; they are user extensions, so their failures are logged
// and never abort the pipeline.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// hooksConfigKey is the configuration section holding hook commands,
// keyed by point name:
//
//	hooks:
//	  env.infect.pre:
//	    - ./scripts/prepare.sh
const hooksConfigKey = "hooks"

// Registry holds the configured commands per extension point. A Registry
// is scoped to one bootstrap invocation.
type Registry struct {
	points map[string][]string
}

// LoadConfig reads the hooks section from v. Missing or empty sections
// yield a registry with no points.
func LoadConfig(v *viper.Viper) *Registry {
	points := make(map[string][]string)

	for point, commands := range v.GetStringMapStringSlice(hooksConfigKey) {
		if len(commands) == 0 {
			continue
		}

		points[point] = commands
	}

	return &Registry{points: points}
}

// Run executes every command configured for point, in order. The context
// pairs are exported to the command as MUTENV_-prefixed environment
// variables, alongside MUTENV_HOOK_POINT. Unknown points are no-ops.
func (r *Registry) Run(ctx context.Context, point string, kv map[string]string) {
	commands := r.points[normalizePoint(point)]
	if len(commands) == 0 {
		return
	}

	env := hookEnv(point, kv)

	for _, command := range commands {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Env = env

		if out, err := cmd.CombinedOutput(); err != nil {
			slog.Warn("hook command failed", "point", point, "command", command, "error", err, "output", string(out))
			continue
		}

		slog.Debug("hook command ran", "point", point, "command", command)
	}
}

// Points returns the configured point names, sorted.
func (r *Registry) Points() []string {
	points := make([]string, 0, len(r.points))
	for point := range r.points {
		points = append(points, point)
	}

	sort.Strings(points)

	return points
}

// normalizePoint lowers the point name the way viper lowers config keys,
// so lookups behave the same whether points came from YAML or code.
func normalizePoint(point string) string {
	return strings.ToLower(point)
}

func hookEnv(point string, kv map[string]string) []string {
	env := append(os.Environ(), "MUTENV_HOOK_POINT="+point)

	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		name := "MUTENV_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
		env = append(env, fmt.Sprintf("%s=%s", name, kv[key]))
	}

	return env
}
