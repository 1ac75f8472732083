// Command context-slice is the CLI dispatcher spec.md §6 describes: a
// thin surface over the IR pipeline plus stubs for the two external
// collaborators that bookend it (the build orchestrator that `record`
// hands a manifest to, and the prompt assembler that `prompt` feeds).
// Business logic beyond flag parsing and stage wiring lives in
// internal/pipeline and its dependencies, not here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/urfave/cli/v2"

	"github.com/oiegrant/context-slice/internal/config"
	"github.com/oiegrant/context-slice/internal/diag"
	"github.com/oiegrant/context-slice/internal/pipeline"
	"github.com/oiegrant/context-slice/internal/version"
)

// sliceDir is the name of the shared, exclusive-access directory spec.md
// §5 fixes as the pipeline's only shared resource.
const sliceDir = ".context-slice"

// recordTimeout is the external build-orchestrator contract's default
// blocking timeout for CLI-mode runs (spec.md §5).
const recordTimeout = 120 * time.Second

var projectRoot string

func main() {
	app := &cli.App{
		Name:                   "context-slice",
		Usage:                  "record a scenario, slice its exercised symbol graph, and build an embeddable prompt",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root directory (defaults to the working directory)",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "show per-stage timing and warnings",
			},
		},
		Commands: []*cli.Command{
			recordCommand(),
			sliceCommand(),
			promptCommand(),
		},
		Before: func(c *cli.Context) error {
			root, err := filepath.Abs(c.String("root"))
			if err != nil {
				return fmt.Errorf("resolving project root %q: %w", c.String("root"), err)
			}
			projectRoot = root
			diag.SetVerbose(c.Bool("verbose"))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "context-slice: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// usageError wraps an argument/flag mistake so main can map it to exit
// code 2 (spec.md §6), distinct from a fatal pipeline error's exit code 1.
type usageError struct{ error }

func exitCodeFor(err error) int {
	var u usageError
	if errors.As(err, &u) {
		return 2
	}
	return 1
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	warnings, err := cfg.Validate()
	if err != nil {
		return nil, usageError{fmt.Errorf("context-slice.json: %w", err)}
	}
	for _, w := range warnings {
		diag.Warn("config", "%s", w)
	}
	return cfg, nil
}

// manifest is the orchestrator <- analyzer contract (spec.md §6): the
// record subcommand writes one of these, and the out-of-scope build
// orchestrator reads it to decide how to build, launch, and instrument
// the target before producing static_ir.json/runtime_trace.json.
type manifest struct {
	ScenarioName                  string   `json:"scenario_name"`
	EntryPoints                   []string `json:"entry_points,omitempty"`
	RunArgs                       []string `json:"run_args,omitempty"`
	ConfigFiles                   []string `json:"config_files,omitempty"`
	OutputDir                     string   `json:"output_dir"`
	RunScript                     string   `json:"run_script,omitempty"`
	ServerPort                    int      `json:"server_port"`
	Namespace                     string   `json:"namespace"`
	TransformsEnabled             bool     `json:"transforms_enabled"`
	TransformDepth                int      `json:"transform_depth"`
	TransformMaxCollectionElement int      `json:"transform_max_collection_elements"`
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "record one live execution scenario",
		ArgsUsage: "<scenario>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "run-script", Usage: "command the orchestrator uses to launch the instrumented target"},
			&cli.StringFlag{Name: "namespace", Usage: "root package/namespace to instrument", Value: "com."},
			&cli.IntFlag{Name: "port", Usage: "readiness-poll port for server-mode scenarios", Value: 8080},
			&cli.StringFlag{Name: "args", Usage: "space-separated run arguments passed to the target"},
			&cli.BoolFlag{Name: "no-transforms", Usage: "disable runtime value simplification in the analyzer"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError{errors.New("usage: context-slice record <scenario>")}
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			outDir := filepath.Join(projectRoot, sliceDir)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}

			m := manifest{
				ScenarioName:                  c.Args().First(),
				OutputDir:                     outDir,
				RunScript:                     c.String("run-script"),
				ServerPort:                    c.Int("port"),
				Namespace:                     c.String("namespace"),
				TransformsEnabled:             !c.Bool("no-transforms"),
				TransformDepth:                cfg.Transforms.DepthLimit,
				TransformMaxCollectionElement: cfg.Transforms.MaxCollectionElements,
			}
			if raw := c.String("args"); raw != "" {
				m.RunArgs = strings.Fields(raw)
			}

			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling manifest: %w", err)
			}
			manifestPath := filepath.Join(outDir, "manifest.json")
			if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", manifestPath, err)
			}
			diag.Printf("wrote %s", manifestPath)

			if m.RunScript == "" {
				fmt.Printf("manifest written to %s; hand it to the build orchestrator to produce static_ir.json and runtime_trace.json\n", manifestPath)
				return nil
			}
			return launchScenario(c.Context, m.RunScript)
		},
	}
}

// launchScenario is the thin, in-scope half of the external build
// orchestrator's lifecycle contract (spec.md §5): a blocking subprocess
// launch bounded by a 120-second default timeout, with stdout and stderr
// drained concurrently while the child runs and Wait called only after
// both drains finish, so a full pipe buffer never deadlocks the child. The orchestrator's build-tool detection, compilation, and
// instrumented-process supervision stay out of scope; this only runs the
// script the operator supplied via --run-script.
func launchScenario(ctx context.Context, script string) error {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attaching stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attaching stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting run-script %q: %w", script, err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return drain(os.Stdout, stdout) })
	g.Go(func() error { return drain(os.Stderr, stderr) })

	drainErr := g.Wait()
	waitErr := cmd.Wait()
	if waitErr != nil {
		return fmt.Errorf("run-script %q: %w", script, waitErr)
	}
	return drainErr
}

func drain(dst *os.File, src io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			dst.Write(buf[:n])
		}
		if err != nil {
			return nil // EOF or pipe close is expected at process exit
		}
	}
}

func sliceCommand() *cli.Command {
	return &cli.Command{
		Name:  "slice",
		Usage: "fuse the recorded scenario with the static IR and package the context slice",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			outDir := filepath.Join(projectRoot, sliceDir)
			staticPath := filepath.Join(outDir, "static_ir.json")
			if _, err := os.Stat(staticPath); err != nil {
				return fmt.Errorf("static_ir.json not found under %s: %w", outDir, err)
			}

			result, err := pipeline.Run(cfg, staticPath, runtimeTracePath(outDir), outDir)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				diag.Warn(w.Stage, "%s", w.Message)
			}
			fmt.Printf("sliced %d symbols across %d files (runtime_captured=%t)\n",
				len(result.Slice.OrderedSymbols),
				len(result.Slice.RelevantFilePaths),
				result.Slice.ScenarioMeta.RuntimeCaptured,
			)
			return nil
		},
	}
}

// runtimeTracePath resolves the preferred runtime trace location before
// falling back to the legacy flat-file path (spec.md §6's persisted
// layout). When neither file exists it still returns the legacy path;
// that is not an error — loader.Load treats a missing file as "no runtime
// trace available".
func runtimeTracePath(outDir string) string {
	preferred := filepath.Join(outDir, "runtime", "runtime_trace.json")
	if _, err := os.Stat(preferred); err == nil {
		return preferred
	}
	legacy := filepath.Join(outDir, "runtime_trace.json")
	if _, err := os.Stat(legacy); err == nil {
		return legacy
	}
	return legacy
}

func promptCommand() *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "concatenate the packaged slice with a task string into prompt.md",
		ArgsUsage: "\"<task>\"",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError{errors.New("usage: context-slice prompt \"<task>\"")}
			}
			task := c.Args().First()

			outDir := filepath.Join(projectRoot, sliceDir)
			arch, err := readSliceFile(outDir, "architecture.md")
			if err != nil {
				return err
			}
			cfgUsage, err := readSliceFile(outDir, "config_usage.md")
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "# Task\n\n%s\n\n", task)
			b.WriteString(arch)
			b.WriteString("\n")
			b.WriteString(cfgUsage)

			promptPath := filepath.Join(outDir, "prompt.md")
			if err := os.WriteFile(promptPath, []byte(b.String()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", promptPath, err)
			}
			fmt.Printf("wrote %s\n", promptPath)
			return nil
		},
	}
}

// readSliceFile reads one of the packaged artifacts, wrapping a missing
// file as the §7 MissingSlice error taxonomy entry: the operator ran
// `prompt` before `slice` produced anything to concatenate.
func readSliceFile(outDir, name string) (string, error) {
	path := filepath.Join(outDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("missing slice artifact %s: run `context-slice slice` first", name)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
