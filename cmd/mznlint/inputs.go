package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"mznlint/internal/config"
	"mznlint/internal/modelio"
)

// collectInputs expands directory arguments into the snapshot files they
// contain, keeping file arguments as given. Duplicates are dropped.
func collectInputs(args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !st.IsDir() {
			add(arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == modelio.Ext {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %q: %w", arg, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no %s files in %q", modelio.Ext, arg)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// loadConfig honours --config, otherwise searches upwards from the first input.
func loadConfig(cmd *cobra.Command, firstInput string) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	start := firstInput
	if start == "" {
		start = "."
	} else if st, err := os.Stat(start); err == nil && !st.IsDir() {
		start = filepath.Dir(start)
	}
	return config.Discover(start)
}
