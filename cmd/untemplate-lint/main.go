package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	untemplate "github.com/goliatone/go-untemplate"
	"github.com/goliatone/go-untemplate/pkg/document"
)

type violation struct {
	file    string
	kind    string
	message string
}

func main() {
	exts := flag.String("ext", ".md,.tmpl", "comma separated template extensions to lint")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint slot templates for structures extraction cannot recover.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintPath(path, parseExtensions(*exts))
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].kind == violations[j].kind {
					return violations[i].message < violations[j].message
				}
				return violations[i].kind < violations[j].kind
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.kind, v.message)
		}
		os.Exit(1)
	}
}

func parseExtensions(raw string) map[string]bool {
	out := map[string]bool{}
	for _, ext := range strings.Split(raw, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[strings.ToLower(ext)] = true
	}
	return out
}

func lintPath(path string, exts map[string]bool) ([]violation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return lintFile(path)
	}

	var result []violation
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			name := d.Name()
			if p != path && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		linted, lintErr := lintFile(p)
		if lintErr != nil {
			return lintErr
		}
		result = append(result, linted...)
		return nil
	})
	return result, err
}

// lintFile validates the template body of one file. Frontmatter is split off
// first so slots in metadata values do not show up in the report.
func lintFile(path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	doc, err := document.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	report := untemplate.Validate(doc.Body)

	var result []violation
	for _, warning := range report.Warnings {
		result = append(result, violation{file: path, kind: "warning", message: warning})
	}
	for _, label := range report.NeedsAI {
		result = append(result, violation{
			file:    path,
			kind:    "needs-ai",
			message: fmt.Sprintf("slot %q cannot be recovered by matching alone", label),
		})
	}
	return result, nil
}
