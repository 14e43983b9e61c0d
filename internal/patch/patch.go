package patch

import (
	"os"
	"path/filepath"
	"strings"
)

// ApplyToFile reads filePath (creating its parent directories if needed,
// same as patch_edit), applies patchContent, and writes the result back in
// the encoding the file was read with. A missing file is treated as empty,
// so a patch whose only hunk targets line 0 with no context or removals
// creates it.
func ApplyToFile(filePath string, patchContent string) (Result, error) {
	dir := filepath.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, newError(ErrParse, "Error creating directories: "+err.Error())
		}
	}

	var content string
	usedEncoding := defaultEncoding
	if data, err := os.ReadFile(filePath); err == nil {
		decoded, enc, derr := DecodeFile(data)
		if derr != nil {
			return Result{}, derr
		}
		content = decoded
		usedEncoding = enc
	} else if !os.IsNotExist(err) {
		return Result{}, newError(ErrParse, "Error reading file: "+err.Error())
	}

	result, err := Apply(content, patchContent)
	if err != nil {
		return Result{}, err
	}

	encoded, err := EncodeFile(result.Content, usedEncoding)
	if err != nil {
		return Result{}, newError(ErrParse, "Error encoding patched content: "+err.Error())
	}
	if err := writeFileDurably(filePath, encoded); err != nil {
		return Result{}, newError(ErrParse, "Error writing file: "+err.Error())
	}
	return result, nil
}

// writeFileDurably writes data to path via a sibling temp file plus
// rename, the same durability scheme internal/pyedit.OSBackend uses.
func writeFileDurably(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pyedit-patch-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Summary renders a Result the way patch_edit's own string-returning API
// does, for CLI/MCP callers that want one line of human-readable output.
func Summary(r Result) string {
	if len(r.Notes) == 0 {
		return "No changes were applied"
	}
	return "Successfully applied patches:\n" + strings.Join(r.Notes, "\n")
}
