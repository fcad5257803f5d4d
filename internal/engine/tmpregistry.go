package engine

import (
	"os"
	"sync"
)

// tmpSuffix marks in-flight temporaries. The purge skips these names, and
// interrupted runs can sweep their own debris on the next start.
const tmpSuffix = ".ferry-tmp"

// Registry of temporaries currently open, process-wide so teardown can
// sweep debris regardless of which worker opened it.
var tmpReg = struct {
	mu    sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

func registerTmp(path string) {
	tmpReg.mu.Lock()
	tmpReg.paths[path] = struct{}{}
	tmpReg.mu.Unlock()
}

func deregisterTmp(path string) {
	tmpReg.mu.Lock()
	delete(tmpReg.paths, path)
	tmpReg.mu.Unlock()
}

// CleanupTmpFiles removes every temporary still registered. Called on
// engine teardown and from the interrupt handler; safe to call more than
// once.
func CleanupTmpFiles() {
	tmpReg.mu.Lock()
	defer tmpReg.mu.Unlock()
	for p := range tmpReg.paths {
		os.Remove(p)
	}
	tmpReg.paths = make(map[string]struct{})
}
