package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Canned ffmpeg stand-ins for capture tests. Each script treats its last
// argument as the output path, matching the real capture argv shape.
const (
	// FFmpegScriptCapture writes output immediately and then stays alive
	// until terminated, like a healthy long-running capture.
	FFmpegScriptCapture = `#!/bin/sh
for last; do :; done
echo "stub-audio-bytes" > "$last"
exec sleep 600
`

	// FFmpegScriptNoOutput exits successfully without producing a file,
	// like a capture that never connected.
	FFmpegScriptNoOutput = `#!/bin/sh
exit 0
`

	// FFmpegScriptStubborn ignores SIGTERM so only force kill ends it.
	FFmpegScriptStubborn = `#!/bin/sh
for last; do :; done
echo "stub-audio-bytes" > "$last"
trap '' TERM
sleep 600 &
wait
`
)

// FFmpegScriptCrash writes output and exits with the given status, like a
// capture whose source died.
func FFmpegScriptCrash(code int) string {
	return fmt.Sprintf(`#!/bin/sh
for last; do :; done
echo "stub-audio-bytes" > "$last"
exit %d
`, code)
}

// StubFFmpeg installs a fake ffmpeg executable with the provided script
// body and prepends its directory to PATH for the duration of the test.
func StubFFmpeg(t testing.TB, script string) {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
