package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	scripts "github.com/bjageman/botc-scripts"
	"github.com/bjageman/botc-scripts/memstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const historyScriptID = "script"

func readContent(path string) (scripts.Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}

	c, err := scripts.ParseContent(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return c, nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	old, err := readContent(args[0])
	if err != nil {
		return err
	}

	updated, err := readContent(args[1])
	if err != nil {
		return err
	}

	cs := scripts.Diff(old, updated)
	logger.Debug("diffed scripts",
		zap.Int("additions", len(cs.Additions)),
		zap.Int("deletions", len(cs.Deletions)))

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), cs)
	}

	printChangeSet(cmd.OutOrStdout(), cs)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := scripts.ParseVersion(args[0])
	if err != nil {
		return err
	}

	b, err := scripts.ParseVersion(args[1])
	if err != nil {
		return err
	}

	sign := map[int]string{-1: "<", 0: "=", 1: ">"}[a.Compare(b)]
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", a, sign, b)
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s %d\n", a.InternalInteger(), sign, b.InternalInteger())
	return nil
}

type versionFile struct {
	version scripts.Version
	path    string
}

func listVersionFiles(dir string) ([]versionFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "could not list %s", dir)
	}

	files := make([]versionFile, 0, len(matches))
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		v, err := scripts.ParseVersion(stem)
		if err != nil {
			logger.Warn("skipping file without a version name", zap.String("path", path))
			continue
		}

		files = append(files, versionFile{version: v, path: path})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version.Less(files[j].version)
	})

	return files, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := &scripts.Config{AllowAnonymous: true}
	if configPath != "" {
		loaded, err := scripts.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		cfg.AllowAnonymous = true
	}
	cfg.Logger = logger

	db := memstore.New()
	defer db.Close()

	m, err := scripts.NewManager(db, cfg)
	if err != nil {
		return err
	}

	files, err := listVersionFiles(args[0])
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errors.Errorf("no <version>.json files in %s", args[0])
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, f := range files {
		content, err := readContent(f.path)
		if err != nil {
			return err
		}

		if _, err := m.Submit(ctx, scripts.Submission{
			ScriptID: historyScriptID,
			Content:  content,
			Version:  f.version.String(),
		}); err != nil {
			return err
		}
	}

	var viewpoint *scripts.Version
	if at != "" {
		v, err := scripts.ParseVersion(at)
		if err != nil {
			return err
		}
		viewpoint = &v
	}

	detail, err := m.Detail(ctx, historyScriptID, viewpoint)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), detail.History)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", detail.Record.Version, detail.Record.Name())
	for _, c := range detail.History {
		fmt.Fprintf(out, "\n%s (from %s)\n", c.Version, c.PreviousVersion)
		printChangeSet(out, c.ChangeSet)
	}

	return nil
}

func printChangeSet(w io.Writer, cs scripts.ChangeSet) {
	if cs.Empty() {
		fmt.Fprintln(w, "  no character changes")
		return
	}

	for _, e := range cs.Additions {
		fmt.Fprintf(w, "  + %s\n", e.ID())
	}

	for _, e := range cs.Deletions {
		fmt.Fprintf(w, "  - %s\n", e.ID())
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
