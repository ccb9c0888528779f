package x86

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Link assembles and links asmPath into a native ELF binary at
// elfPath using the system C compiler, matching
// ex10/backend/X86Backend.py X86Backend.compile. It is the external-
// collaborator seam: kept separate from Emit so the pure assembly-text
// code path can be tested without gcc on PATH.
func Link(asmPath, elfPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gcc", "-m32", "-o", elfPath, asmPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("x86: gcc failed: %w\n%s", err, out)
	}
	return nil
}
