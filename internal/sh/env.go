package sh

import (
	"os"
)

// buildEnv flattens vars on top of the process's own environment, producing
// the slice os/exec.Cmd.Env expects. Locals set at a node take precedence
// over anything inherited.
func buildEnv(vars map[string]string) []string {
	base := os.Environ()
	env := make([]string, 0, len(base)+len(vars))

	seen := make(map[string]bool, len(vars))
	for k := range vars {
		seen[k] = true
	}

	for _, kv := range base {
		if k, _, ok := splitEnv(kv); ok && seen[k] {
			continue
		}
		env = append(env, kv)
	}

	for k, v := range vars {
		env = append(env, k+"="+v)
	}

	return env
}

func splitEnv(kv string) (key, val string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

// discoverSelfExecutable resolves the running binary's own path, so the
// engine can re-exec itself for forked children without the caller having
// to supply the path explicitly.
func discoverSelfExecutable() string {
	path, err := os.Readlink("/proc/self/exe")
	if err != nil {
		path = os.Args[0]

		if _, err := os.Stat(path); err != nil {
			return ""
		}
	}

	return path
}
