package config

import (
	"os"
	"sync"
)

var (
	inDockerOnce   sync.Once
	inDockerResult bool
)

// runningInDocker reports whether the process runs inside a Docker
// container, detected via /.dockerenv. The result is cached.
func runningInDocker() bool {
	inDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inDockerResult = err == nil
	})
	return inDockerResult
}

// resolveHost maps loopback hosts to host.docker.internal when running in a
// container, so a containerized migration run can still reach a database on
// the host machine. Any other host passes through unchanged.
func resolveHost(host string, inDocker bool) string {
	if !inDocker {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}
