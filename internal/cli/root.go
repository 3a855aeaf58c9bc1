package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"solgen/pkg/solgen"
)

const (
	appName    = "solgen"
	appVersion = "0.1.0"
)

type negBoolBinding struct {
	target *bool
	neg    *bool
}

func addBoolPair(cmd *cobra.Command, bindings *[]negBoolBinding, target *bool, name string, usage string) {
	neg := new(bool)
	cmd.Flags().BoolVar(target, name, *target, usage)
	cmd.Flags().BoolVar(neg, "no-"+name, false, "disable "+name)
	*bindings = append(*bindings, negBoolBinding{target: target, neg: neg})
}

func NewRootCmd() *cobra.Command {
	opts := solgen.Defaults()
	count := 1
	outputDir := ""
	expectedDir := ""
	headerFile := ""
	showVersion := false
	intsAndBools := false
	verbose := false
	negBindings := make([]negBoolBinding, 0, 4)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Random Solis program generator with expected-output oracle",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}

			if showVersion {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, appVersion)
				return err
			}

			if intsAndBools {
				opts.Floats = false
				if !cmd.Flags().Changed("prefix") {
					opts.Prefix = solgen.IntsAndBools().Prefix
				}
			}
			if headerFile != "" {
				data, err := os.ReadFile(headerFile)
				if err != nil {
					return fmt.Errorf("read header: %w", err)
				}
				opts.Header = string(data)
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			gen, err := solgen.New(opts)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				a, err := gen.Next()
				if err != nil {
					return err
				}
				if outputDir == "" {
					if err := printArtifact(cmd, a, count > 1); err != nil {
						return err
					}
					continue
				}
				program, expected, err := writeArtifact(a, outputDir, expectedDir)
				if err != nil {
					return err
				}
				if verbose {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s result, %s, %s\n", a.Name, a.ResultType, program, expected)
				}
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version")
	cmd.Flags().Uint64VarP(&opts.Seed, "seed", "s", opts.Seed, "seed for deterministic generation")
	cmd.Flags().IntVarP(&count, "count", "n", count, "number of programs to generate")
	cmd.Flags().IntVar(&opts.Start, "start", opts.Start, "index of the first program")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", opts.Prefix, "file name prefix for generated programs")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write <prefix>_<i>.sol files to this directory instead of stdout")
	cmd.Flags().StringVar(&expectedDir, "expected-dir", "", "directory for .out files (default <output-dir>/expected)")
	cmd.Flags().StringVar(&headerFile, "header-file", "", "read the header comment text from file")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "report each written artifact on stderr")
	cmd.Flags().BoolVar(&intsAndBools, "ints-and-bools", false, "generate int and bool programs only")

	cmd.Flags().IntVar(&opts.StatementCount, "statements", opts.StatementCount, "statements in the top-level block")
	cmd.Flags().IntVar(&opts.MaxBranches, "max-branches", opts.MaxBranches, "maximum arms in an if chain")
	cmd.Flags().IntVar(&opts.MaxBlockStatements, "max-block-statements", opts.MaxBlockStatements, "maximum statements in a branch body")
	cmd.Flags().IntVar(&opts.MaxNesting, "max-nesting", opts.MaxNesting, "maximum nesting of conditionals")
	cmd.Flags().IntVar(&opts.MaxExprDepth, "max-expr-depth", opts.MaxExprDepth, "limit expression depth")
	cmd.Flags().IntVar(&opts.VarWeight, "var-weight", opts.VarWeight, "weight of variable references relative to other productions")
	cmd.Flags().IntVar(&opts.UnaryProb, "unary-prob", opts.UnaryProb, "probability [0,100]")

	addBoolPair(cmd, &negBindings, &opts.Floats, "float", "enable float")
	addBoolPair(cmd, &negBindings, &opts.CrossTypeFloatSum, "cross-type-float-sum", "let float closing sums read int bindings")
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", opts.NoHeader, "omit the header comment")

	_ = cmd.MarkFlagDirname("output-dir")
	_ = cmd.MarkFlagDirname("expected-dir")
	_ = cmd.MarkFlagFilename("header-file")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		for _, b := range negBindings {
			if *b.neg {
				*b.target = false
			}
		}
	}

	return cmd
}

func printArtifact(cmd *cobra.Command, a solgen.Artifact, many bool) error {
	out := cmd.OutOrStdout()
	if many {
		if _, err := fmt.Fprintf(out, "# === %s ===\n", a.Name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(out, a.Program); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "# expected: %s\n", a.Expected)
	return err
}

// writeArtifact stores the program as <dir>/<name>.sol and the expected value
// as <expectedDir>/<name>.out.
func writeArtifact(a solgen.Artifact, dir, expectedDir string) (string, string, error) {
	if expectedDir == "" {
		expectedDir = filepath.Join(dir, "expected")
	}
	for _, d := range []string{dir, expectedDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", "", fmt.Errorf("create %s: %w", d, err)
		}
	}
	program := filepath.Join(dir, a.Name+".sol")
	expected := filepath.Join(expectedDir, a.Name+".out")
	if err := os.WriteFile(program, []byte(a.Program), 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(expected, []byte(a.Expected), 0o644); err != nil {
		return "", "", err
	}
	return program, expected, nil
}
