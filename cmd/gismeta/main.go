package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.yaml.in/yaml/v4"

	gismetadata "github.com/consbio/gis-metadata-parser"
	"github.com/consbio/gis-metadata-parser/converter"
	"github.com/consbio/gis-metadata-parser/differ"
	"github.com/consbio/gis-metadata-parser/internal/cliutil"
	"github.com/consbio/gis-metadata-parser/internal/fileutil"
	"github.com/consbio/gis-metadata-parser/internal/maputil"
	"github.com/consbio/gis-metadata-parser/internal/mcpserver"
	"github.com/consbio/gis-metadata-parser/parser"
	"github.com/consbio/gis-metadata-parser/validator"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("gismeta v%s\n", gismetadata.Version())
	case "help", "-h", "--help":
		printUsage()
	case "parse":
		if err := handleParse(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := handleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "convert":
		if err := handleConvert(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "diff":
		if err := handleDiff(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// parseFlags contains flags for the parse command
type parseFlags struct {
	property string
	format   string
}

func setupParseFlags() (*flag.FlagSet, *parseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &parseFlags{}

	fs.StringVar(&flags.property, "p", "", "print only the named canonical property")
	fs.StringVar(&flags.property, "property", "", "print only the named canonical property")
	fs.StringVar(&flags.format, "f", "text", "output format: text, yaml, or json")
	fs.StringVar(&flags.format, "format", "text", "output format: text, yaml, or json")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: gismeta parse [flags] <file>\n\n")
		cliutil.Writef(output, "Parse a metadata record and output its canonical properties.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  gismeta parse record.xml\n")
		cliutil.Writef(output, "  gismeta parse -p title record.xml\n")
		cliutil.Writef(output, "  gismeta parse -f yaml record.xml\n")
		cliutil.Writef(output, "  gismeta parse --property bounding_box fgdc-record.xml\n")
	}

	return fs, flags
}

func handleParse(args []string) error {
	fs, flags := setupParseFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one file path")
	}

	recordPath := fs.Arg(0)

	data, err := os.ReadFile(recordPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	p, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}

	if flags.property != "" {
		value := p.Get(flags.property)
		if value.IsEmpty() {
			return fmt.Errorf("property %q is not present in %s", flags.property, recordPath)
		}
		printValue(flags.property, value)
		return nil
	}

	if flags.format != "text" {
		return marshalCanonical(p, flags.format)
	}

	fmt.Printf("Geospatial Metadata Parser\n")
	fmt.Printf("==========================\n\n")
	fmt.Printf("gismeta version: %s\n", gismetadata.Version())
	fmt.Printf("Record: %s\n", recordPath)
	fmt.Printf("Standard: %s\n\n", p.Standard())

	names := p.Registry().Properties()
	sort.Strings(names)
	present := 0
	for _, name := range names {
		value := p.Get(name)
		if value.IsEmpty() {
			continue
		}
		present++
		printValue(name, value)
	}
	fmt.Printf("\n%d of %d properties present\n", present, len(names))
	return nil
}

// marshalCanonical writes the canonical property set to stdout as yaml
// or json.
func marshalCanonical(p *parser.MetadataParser, format string) error {
	doc := map[string]any{
		"standard":   p.Standard(),
		"properties": canonicalMap(p),
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown output format %q (expected text, yaml, or json)", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling canonical properties: %w", err)
	}

	_, err = os.Stdout.Write(data)
	return err
}

// canonicalMap renders each present property in its natural shape: scalars
// as strings, repeated values as lists, structured values as lists of maps.
func canonicalMap(p *parser.MetadataParser) map[string]any {
	out := make(map[string]any)
	for _, name := range p.Registry().Properties() {
		value := p.Get(name)
		if value.IsEmpty() {
			continue
		}
		switch value.Kind() {
		case parser.KindSequence:
			out[name] = value.Sequence()
		case parser.KindStructured:
			out[name] = value.Structured()
		default:
			out[name] = value.Scalar()
		}
	}
	return out
}

// printValue renders one canonical property for terminal output.
func printValue(name string, value parser.Value) {
	switch value.Kind() {
	case parser.KindSequence:
		fmt.Printf("%s:\n", name)
		for _, item := range value.Sequence() {
			fmt.Printf("  - %s\n", item)
		}
	case parser.KindStructured:
		fmt.Printf("%s:\n", name)
		for i, occurrence := range value.Structured() {
			fmt.Printf("  [%d]\n", i)
			for _, k := range maputil.SortedKeys(occurrence) {
				if occurrence[k] == "" {
					continue
				}
				fmt.Printf("    %s: %s\n", k, occurrence[k])
			}
		}
	default:
		scalar := value.Scalar()
		if strings.Contains(scalar, "\n") {
			fmt.Printf("%s:\n", name)
			for _, line := range strings.Split(scalar, "\n") {
				fmt.Printf("  %s\n", line)
			}
		} else {
			fmt.Printf("%s: %s\n", name, scalar)
		}
	}
}

// validateFlags contains flags for the validate command
type validateFlags struct {
	strict     bool
	noWarnings bool
	required   string
}

func setupValidateFlags() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &validateFlags{}

	fs.BoolVar(&flags.strict, "strict", false, "enable stricter validation (date ordering and similar checks)")
	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.StringVar(&flags.required, "required", "", "comma-separated canonical properties that must be present")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: gismeta validate [flags] <file>\n\n")
		cliutil.Writef(fs.Output(), "Validate a metadata record against its detected standard.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  gismeta validate record.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta validate --strict record.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta validate --required title,abstract,contacts record.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta validate --no-warnings record.xml\n")
	}

	return fs, flags
}

func handleValidate(args []string) error {
	fs, flags := setupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path")
	}

	recordPath := fs.Arg(0)

	v := validator.New()
	v.StrictMode = flags.strict
	v.IncludeWarnings = !flags.noWarnings
	if flags.required != "" {
		v.Required = splitList(flags.required)
	}

	result, err := v.Validate(recordPath)
	if err != nil {
		return fmt.Errorf("validating file: %w", err)
	}

	fmt.Printf("Geospatial Metadata Validator\n")
	fmt.Printf("=============================\n\n")
	fmt.Printf("gismeta version: %s\n", gismetadata.Version())
	fmt.Printf("Record: %s\n", recordPath)
	fmt.Printf("Standard: %s\n", result.Standard)
	fmt.Printf("Properties present: %d\n\n", len(result.Properties))

	if len(result.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", result.ErrorCount)
		for _, err := range result.Errors {
			fmt.Printf("  %s\n", err.String())
		}
		fmt.Println()
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings (%d):\n", result.WarningCount)
		for _, warning := range result.Warnings {
			fmt.Printf("  %s\n", warning.String())
		}
		fmt.Println()
	}

	if result.Valid {
		fmt.Printf("✓ Validation passed")
		if result.WarningCount > 0 {
			fmt.Printf(" with %d warning(s)", result.WarningCount)
		}
		fmt.Println()
	} else {
		fmt.Printf("✗ Validation failed: %d error(s)", result.ErrorCount)
		if result.WarningCount > 0 {
			fmt.Printf(", %d warning(s)", result.WarningCount)
		}
		fmt.Println()
		os.Exit(1)
	}

	return nil
}

// convertFlags contains flags for the convert command
type convertFlags struct {
	target string
	output string
	strict bool
	noInfo bool
}

func setupConvertFlags() (*flag.FlagSet, *convertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &convertFlags{}

	fs.StringVar(&flags.target, "t", "", "target standard (\"fgdc\", \"iso\", or \"arcgis\") (required)")
	fs.StringVar(&flags.target, "target", "", "target standard (\"fgdc\", \"iso\", or \"arcgis\") (required)")
	fs.StringVar(&flags.output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.strict, "strict", false, "fail when any property cannot be represented in the target standard")
	fs.BoolVar(&flags.noInfo, "no-info", false, "suppress informational messages")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: gismeta convert [flags] <file>\n\n")
		cliutil.Writef(fs.Output(), "Convert a metadata record from its detected standard to another.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nSupported Conversions:\n")
		cliutil.Writef(fs.Output(), "  Any direction between FGDC CSDGM, ISO-19115/ISO-19139, and ArcGIS\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  gismeta convert -t iso fgdc-record.xml -o iso-record.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta convert -t fgdc arcgis-record.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta convert --strict -t arcgis iso-record.xml -o out.xml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Conversion is best effort: properties the target cannot represent are dropped\n")
		cliutil.Writef(fs.Output(), "  - Dropped properties are reported as warnings\n")
		cliutil.Writef(fs.Output(), "  - Always review converted records before publishing\n")
	}

	return fs, flags
}

func handleConvert(args []string) error {
	fs, flags := setupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one file path")
	}

	recordPath := fs.Arg(0)

	if flags.target == "" {
		fs.Usage()
		return fmt.Errorf("target standard is required (use -t or --target)")
	}

	c := converter.New()
	c.StrictMode = flags.strict
	c.IncludeInfo = !flags.noInfo

	result, err := c.Convert(recordPath, flags.target)
	if err != nil {
		return fmt.Errorf("converting file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Geospatial Metadata Converter\n")
	fmt.Fprintf(os.Stderr, "=============================\n\n")
	fmt.Fprintf(os.Stderr, "gismeta version: %s\n", gismetadata.Version())
	fmt.Fprintf(os.Stderr, "Record: %s\n", recordPath)
	fmt.Fprintf(os.Stderr, "Source Standard: %s\n", result.SourceStandard)
	fmt.Fprintf(os.Stderr, "Target Standard: %s\n", result.TargetStandard)
	fmt.Fprintf(os.Stderr, "Properties carried: %d\n", len(result.Carried))
	fmt.Fprintf(os.Stderr, "Properties dropped: %d\n\n", len(result.Dropped))

	if len(result.Issues) > 0 {
		fmt.Fprintf(os.Stderr, "Conversion Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(os.Stderr, "  %s\n", issue.String())
		}
		fmt.Fprintln(os.Stderr)
	}

	if result.Success {
		fmt.Fprintf(os.Stderr, "✓ Conversion successful")
		if result.InfoCount > 0 || result.WarningCount > 0 {
			fmt.Fprintf(os.Stderr, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
		}
		fmt.Fprintln(os.Stderr)
	} else {
		fmt.Fprintf(os.Stderr, "✗ Conversion completed with %d critical issue(s)\n", result.CriticalCount)
	}

	data, err := result.Serialize()
	if err != nil {
		return fmt.Errorf("serializing converted record: %w", err)
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, data, fileutil.OwnerReadWrite); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "\nOutput written to: %s\n", flags.output)
	} else {
		if _, err = os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing converted record to stdout: %w", err)
		}
	}

	if !result.Success {
		os.Exit(1)
	}

	return nil
}

// diffFlags contains flags for the diff command
type diffFlags struct {
	properties string
}

func setupDiffFlags() (*flag.FlagSet, *diffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &diffFlags{}

	fs.StringVar(&flags.properties, "properties", "", "comma-separated canonical properties to compare (default: all)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: gismeta diff [flags] <source> <target>\n\n")
		cliutil.Writef(fs.Output(), "Compare two metadata records by their canonical properties.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  gismeta diff survey-2020.xml survey-2021.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta diff --properties title,abstract,dates old.xml new.xml\n")
		cliutil.Writef(fs.Output(), "  gismeta diff fgdc-record.xml converted-iso.xml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - The records may use different standards; values are compared canonically\n")
		cliutil.Writef(fs.Output(), "  - XML layout differences that change no canonical property are not reported\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No differences found\n")
		cliutil.Writef(fs.Output(), "  1    Differences found\n")
	}

	return fs, flags
}

func handleDiff(args []string) error {
	fs, flags := setupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two file paths")
	}

	sourcePath := fs.Arg(0)
	targetPath := fs.Arg(1)

	d := differ.New()
	if flags.properties != "" {
		d.Properties = splitList(flags.properties)
	}

	result, err := d.Diff(sourcePath, targetPath)
	if err != nil {
		return fmt.Errorf("comparing records: %w", err)
	}

	fmt.Printf("Geospatial Metadata Diff\n")
	fmt.Printf("========================\n\n")
	fmt.Printf("gismeta version: %s\n", gismetadata.Version())
	fmt.Printf("Source: %s (%s)\n", sourcePath, result.SourceStandard)
	fmt.Printf("Target: %s (%s)\n\n", targetPath, result.TargetStandard)

	if result.Identical {
		fmt.Println("✓ No differences found")
		return nil
	}

	fmt.Printf("Changes (%d):\n", len(result.Changes))
	for _, change := range result.Changes {
		fmt.Printf("  %s\n", change.String())
	}
	fmt.Println()
	fmt.Printf("Summary: %d added, %d removed, %d modified\n",
		result.AddedCount, result.RemovedCount, result.ModifiedCount)

	os.Exit(1)
	return nil
}

func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var commandNames = []string{"parse", "validate", "convert", "diff", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`gismeta - Geospatial Metadata Tools

Usage:
  gismeta <command> [options]

Commands:
  parse       Parse a metadata record and display its canonical properties
  validate    Validate a metadata record against its detected standard
  convert     Convert a metadata record between standards
  diff        Compare two metadata records by canonical property
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Supported standards: FGDC CSDGM, ISO-19115/ISO-19139, ArcGIS metadata format.
The standard is always detected from the record itself.

Examples:
  gismeta parse record.xml
  gismeta parse -p bounding_box record.xml
  gismeta validate --required title,abstract record.xml
  gismeta convert -t iso fgdc-record.xml -o iso-record.xml
  gismeta diff survey-2020.xml survey-2021.xml

Run 'gismeta <command> --help' for more information on a command.`)
}
