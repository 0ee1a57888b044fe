// Command glint discovers analyzable source files under a root
// directory and reports what a run would analyze them with. Wiring a
// front end that turns source text into ast.Function bodies and
// codebase.FunctionLikeInfo declarations (parsing and declaration
// binding) is the embedding application's job; this binary owns file
// discovery and run configuration, and prints both without running the
// analysis.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glintanalyzer/glint/internal/config"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/persist"
	"github.com/glintanalyzer/glint/internal/pipeline"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	root := flag.String("root", ".", "directory to scan for source files")
	findUnusedExpressions := flag.Bool("find-unused-expressions", false, "report expression statements with no effect")
	findUnusedDefinitions := flag.Bool("find-unused-definitions", false, "report functions and parameters with no use site")
	ignoreMixed := flag.Bool("ignore-mixed", false, "suppress MixedOperand diagnostics")
	taint := flag.Bool("taint", false, "build the whole-program taint graph instead of a per-function graph")
	concurrency := flag.Int("j", 0, "number of files to analyze at once (0 = runtime default)")
	cachePath := flag.String("cache", "", "path to a sqlite cache of prior run results (skipped if empty)")
	flag.Parse()

	files, err := discoverSourceFiles(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error scanning %s: %s\n", *root, err)
		os.Exit(1)
	}

	var cache *persist.Store
	if *cachePath != "" {
		cache, err = persist.Open(*cachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening cache %s: %s\n", *cachePath, err)
			os.Exit(1)
		}
		defer cache.Close()
		files = reportCacheStatus(cache, files)
	}

	graphKind := dataflow.FunctionBody
	if *taint {
		graphKind = dataflow.WholeProgramTaint
	}

	cfg := pipeline.Config{
		FindUnusedExpressions: *findUnusedExpressions,
		FindUnusedDefinitions: *findUnusedDefinitions,
		IgnoreMixedIssues:     *ignoreMixed,
		GraphKind:             graphKind,
		Root:                  *root,
		Concurrency:           *concurrency,
		Suppressions:          issues.NewSuppressions(),
	}

	if len(files) == 0 {
		fmt.Printf("no source files found under %s (recognized extensions: %s)\n", *root, strings.Join(config.SourceFileExtensions, ", "))
		return
	}

	fmt.Printf("found %d source file(s) under %s\n", len(files), *root)
	for _, f := range files {
		fmt.Println("  " + f)
	}
	fmt.Printf("run configuration: %+v\n", cfg)
}

// reportCacheStatus prints, for every file, whether cache already holds
// a record whose content hash matches the file on disk. It returns
// files unchanged; this binary has no parser to actually skip analysis
// of an unchanged file, so it only demonstrates the lookup a real
// driver would use to decide what to re-analyze.
func reportCacheStatus(cache *persist.Store, files []string) []string {
	ctx := context.Background()
	for _, f := range files {
		hash, err := hashFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: error hashing file: %s\n", f, err)
			continue
		}
		unchanged, err := cache.Unchanged(ctx, f, hash)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: error checking cache: %s\n", f, err)
			continue
		}
		if unchanged {
			fmt.Printf("  %s: unchanged since last cached run\n", f)
		}
		if err := cache.Put(ctx, persist.Record{Path: f, ContentHash: hash}); err != nil {
			fmt.Fprintf(os.Stderr, "  %s: error updating cache: %s\n", f, err)
		}
	}
	return files
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// discoverSourceFiles walks root collecting every file whose extension
// config recognizes.
func discoverSourceFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range config.SourceFileExtensions {
			if strings.HasSuffix(path, ext) {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	return out, err
}
