package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	untemplate "github.com/goliatone/go-untemplate"
	"github.com/goliatone/go-untemplate/pkg/document"
	"github.com/goliatone/go-untemplate/pkg/openapi"
	"github.com/goliatone/go-untemplate/pkg/providers/gemini"
	"github.com/goliatone/go-untemplate/pkg/report"
	"github.com/goliatone/go-untemplate/pkg/value"
)

func main() {
	mode := flag.String("mode", "extract", "operation: extract, diff, apply, or validate")
	templatePath := flag.String("template", "", "template file with data binding slots")
	inputPath := flag.String("input", "", "rendered document to extract from")
	originalPath := flag.String("original", "", "original data file (JSON or YAML); required for diff and apply")
	schemaName := flag.String("schema", "", "treat -original as an OpenAPI document and bind this component schema")
	format := flag.String("format", "markdown", "report format: markdown, json, or html")
	output := flag.String("output", "", "output file (stdout if empty)")
	title := flag.String("title", "", "report title")
	strict := flag.Bool("strict", false, "fail when any slot stays unmatched")
	arrayMerge := flag.String("array-merge", "replace", "array merge mode for apply: replace, append, or prepend")
	useAI := flag.Bool("ai", false, "complete unmatched slots through the Gemini API (uses GEMINI_API_KEY)")
	yes := flag.Bool("yes", false, "apply without asking for confirmation")
	flag.Parse()

	ctx := context.Background()

	switch *mode {
	case "extract":
		result := runExtract(ctx, *templatePath, *inputPath, *strict, *useAI)
		rep := report.Report{
			Template:  *templatePath,
			Extract:   result,
			Generated: time.Now().UTC(),
		}
		emitReport(ctx, rep, *format, *title, *output)
	case "diff":
		result := runExtract(ctx, *templatePath, *inputPath, *strict, *useAI)
		original := loadOriginal(ctx, *originalPath, *schemaName)
		changes := untemplate.Diff(original.data, result.Data)
		rep := report.Report{
			Template:  *templatePath,
			Extract:   result,
			Diff:      &changes,
			Generated: time.Now().UTC(),
		}
		emitReport(ctx, rep, *format, *title, *output)
	case "apply":
		runApply(ctx, applyConfig{
			templatePath: *templatePath,
			inputPath:    *inputPath,
			originalPath: *originalPath,
			schemaName:   *schemaName,
			output:       *output,
			arrayMerge:   *arrayMerge,
			strict:       *strict,
			useAI:        *useAI,
			yes:          *yes,
		})
	case "validate":
		runValidate(*templatePath)
	default:
		log.Fatalf("unknown mode %q (want extract, diff, apply, or validate)", *mode)
	}
}

type applyConfig struct {
	templatePath string
	inputPath    string
	originalPath string
	schemaName   string
	output       string
	arrayMerge   string
	strict       bool
	useAI        bool
	yes          bool
}

// original is the state extraction results are compared against and merged
// onto: either a plain data file, or a record derived from an OpenAPI schema
// when -schema is set.
type original struct {
	data   map[string]any
	spec   *openapi3.T
	schema string
	path   string
}

func runExtract(ctx context.Context, templatePath, inputPath string, strict, useAI bool) *untemplate.Result {
	template := readTemplate(templatePath)
	rendered := readRendered(inputPath)

	var opts []untemplate.Option
	if strict {
		opts = append(opts, untemplate.WithStrict())
	}

	if useAI {
		provider, err := gemini.New(ctx)
		if err != nil {
			log.Fatalf("Failed to create Gemini provider: %v", err)
		}
		result, err := untemplate.ExtractWithAI(ctx, template, rendered, provider, opts...)
		if err != nil {
			log.Fatalf("Failed to extract: %v", err)
		}
		return &result.Result
	}

	result, err := untemplate.Extract(template, rendered, opts...)
	if err != nil {
		log.Fatalf("Failed to extract: %v", err)
	}
	return result
}

func runApply(ctx context.Context, cfg applyConfig) {
	result := runExtract(ctx, cfg.templatePath, cfg.inputPath, cfg.strict, cfg.useAI)
	orig := loadOriginal(ctx, cfg.originalPath, cfg.schemaName)

	changes := untemplate.Diff(orig.data, result.Data)
	if !changes.HasChanges {
		fmt.Println("No changes to apply.")
		return
	}

	count := len(changes.Added) + len(changes.Modified) + len(changes.Removed)
	if !cfg.yes && !confirmApply(count, orig.path) {
		fmt.Println("Aborted.")
		return
	}

	merged := untemplate.Apply(orig.data, result.Data, untemplate.MergeOptions{
		ArrayMerge: parseArrayMerge(cfg.arrayMerge),
	})

	if orig.spec != nil {
		record, ok := merged.(map[string]any)
		if !ok {
			log.Fatalf("Merged data is not an object; cannot write it back to schema %q", orig.schema)
		}
		if err := openapi.ApplyRecord(orig.spec, orig.schema, record); err != nil {
			log.Fatalf("Failed to apply record to OpenAPI document: %v", err)
		}
		writeOutput(cfg.output, marshalSpec(orig.spec, orig.path))
		return
	}

	writeOutput(cfg.output, marshalData(merged, orig.path))
}

func runValidate(templatePath string) {
	template := readTemplate(templatePath)
	rep := untemplate.Validate(template)

	for _, path := range rep.Extractable {
		fmt.Printf("extractable: %s\n", path)
	}
	for _, path := range rep.NeedsAI {
		fmt.Printf("needs AI: %s\n", path)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	if !rep.Valid {
		os.Exit(1)
	}
}

func readTemplate(path string) string {
	if path == "" {
		log.Fatalf("missing -template")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}
	return string(raw)
}

// readRendered loads the document to extract from. Frontmatter is split off
// so slots only ever match against the body.
func readRendered(path string) string {
	if path == "" {
		log.Fatalf("missing -input")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	doc, err := document.Parse(string(raw))
	if err != nil {
		log.Fatalf("Failed to parse input document: %v", err)
	}
	return doc.Body
}

func loadOriginal(ctx context.Context, path, schemaName string) original {
	if path == "" {
		log.Fatalf("missing -original")
	}

	if schemaName != "" {
		spec := loadSpec(ctx, path)
		record, err := openapi.SchemaRecord(spec, schemaName)
		if err != nil {
			log.Fatalf("Failed to build schema record: %v", err)
		}
		return original{data: record, spec: spec, schema: schemaName, path: path}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read original data: %v", err)
	}

	var data map[string]any
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(raw, &data)
	} else {
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		log.Fatalf("Failed to parse original data: %v", err)
	}

	normalized, _ := value.Normalize(data).(map[string]any)
	return original{data: normalized, path: path}
}

func loadSpec(ctx context.Context, path string) *openapi3.T {
	loader := openapi.NewLoader(openapi.WithHTTPFallback(30 * time.Second))

	src := openapi.SourceFromFile(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		src = openapi.SourceFromURL(path)
	}

	spec, err := loader.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}
	return spec
}

func parseArrayMerge(mode string) untemplate.ArrayMerge {
	switch mode {
	case "", "replace":
		return untemplate.ArrayReplace
	case "append":
		return untemplate.ArrayAppend
	case "prepend":
		return untemplate.ArrayPrepend
	default:
		log.Fatalf("unknown array merge mode %q (want replace, append, or prepend)", mode)
	}
	return untemplate.ArrayReplace
}

func confirmApply(count int, target string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Apply %d change(s) to the data from %s?", count, target),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false
		}
		log.Fatalf("Failed to confirm: %v", err)
	}
	return confirmed
}

func emitReport(ctx context.Context, rep report.Report, format, title, output string) {
	renderer, err := report.DefaultRegistry().Get(format)
	if err != nil {
		log.Fatalf("Unknown format: %v", err)
	}
	payload, err := renderer.Render(ctx, rep, report.Options{Title: title})
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	writeOutput(output, payload)
}

// marshalData serializes merged data in the same format the original file
// used, so apply output can replace it directly.
func marshalData(data any, originalPath string) []byte {
	if strings.HasSuffix(originalPath, ".json") {
		payload, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode merged data: %v", err)
		}
		return append(payload, '\n')
	}

	payload, err := yaml.Marshal(data)
	if err != nil {
		log.Fatalf("Failed to encode merged data: %v", err)
	}
	return payload
}

// marshalSpec serializes a written-back OpenAPI document. YAML originals
// round trip through the JSON form kin-openapi emits.
func marshalSpec(spec *openapi3.T, originalPath string) []byte {
	payload, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode OpenAPI document: %v", err)
	}
	if strings.HasSuffix(originalPath, ".json") {
		return append(payload, '\n')
	}

	var tree map[string]any
	if err := json.Unmarshal(payload, &tree); err != nil {
		log.Fatalf("Failed to decode OpenAPI document: %v", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		log.Fatalf("Failed to encode OpenAPI document: %v", err)
	}
	return out
}

func writeOutput(output string, payload []byte) {
	if output != "" {
		if err := os.WriteFile(output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", output)
		return
	}
	fmt.Println(string(payload))
}
