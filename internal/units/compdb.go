package units

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// compileCommand is one entry of a Clang compilation database. Only the
// fields that identify the translation unit matter here.
type compileCommand struct {
	Directory string `json:"directory"`
	File      string `json:"file"`
}

// FromCompileCommands loads a compile_commands.json and returns its units in
// database order, deduplicated. Relative file entries resolve against their
// directory field.
func FromCompileCommands(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compilation database: %w", err)
	}
	var cmds []compileCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parse compilation database %s: %w", path, err)
	}

	var units []string
	seen := make(map[string]bool)
	for _, cmd := range cmds {
		if cmd.File == "" {
			continue
		}
		unit := cmd.File
		if !filepath.IsAbs(unit) && cmd.Directory != "" {
			unit = filepath.Join(cmd.Directory, unit)
		}
		if !seen[unit] {
			seen[unit] = true
			units = append(units, unit)
		}
	}
	return units, nil
}
