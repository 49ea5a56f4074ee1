// Package runner drives one generation run: discover schema files, build the
// shared module registry, generate the stub surfaces for every module, and
// write the output files.
package runner

import (
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/tristendillon/capnp-stubgen/core/config"
	"github.com/tristendillon/capnp-stubgen/core/discovery"
	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/format"
	"github.com/tristendillon/capnp-stubgen/core/generator"
	"github.com/tristendillon/capnp-stubgen/core/logger"
	"github.com/tristendillon/capnp-stubgen/core/parser"
	"github.com/tristendillon/capnp-stubgen/core/pytext"
	"github.com/tristendillon/capnp-stubgen/core/schema"
)

// Output file suffixes of the two stub surfaces.
const (
	PyiSuffix = ".pyi"
	PySuffix  = ".py"
)

// Runner owns the collaborators of one generation run.
type Runner struct {
	cfg    *config.Config
	root   string
	parser parser.Parser
}

// New builds a runner for the given config, rooted at the directory the
// generator is executed from.
func New(cfg *config.Config, root string) (*Runner, error) {
	p, err := parser.NewCommandParser(cfg.Parser.Command)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, root: root, parser: p}, nil
}

// NewWithParser builds a runner with a custom parser implementation.
func NewWithParser(cfg *config.Config, root string, p parser.Parser) *Runner {
	return &Runner{cfg: cfg, root: root, parser: p}
}

// Run executes the full pipeline. Modules are generated by independent
// workers; a fatal consistency error aborts only that module's output, and
// the first such error is reported after the remaining modules finished.
func (r *Runner) Run() error {
	set, err := discovery.Resolve(discovery.Options{
		Root:      r.root,
		Paths:     r.cfg.Paths,
		Excludes:  r.cfg.Excludes,
		Clean:     r.cfg.Clean,
		Recursive: r.cfg.Recursive,
	})
	if err != nil {
		return err
	}

	if err := set.RemoveCleanup(); err != nil {
		return err
	}

	if len(set.Schemas) == 0 {
		logger.Warn("No schema files matched the configured paths.")
		return nil
	}

	registry := schema.NewRegistry()
	for _, path := range set.Schemas {
		module, err := r.parser.Load(path)
		if err != nil {
			return err
		}
		if err := registry.Add(module); err != nil {
			return err
		}
	}

	var group errgroup.Group
	for _, module := range registry.Modules() {
		module := module
		group.Go(func() error {
			return r.generateStubs(module, registry)
		})
	}

	return group.Wait()
}

// generateStubs emits both stub surfaces for one module and writes them next
// to the schema file, or into the configured output directory.
func (r *Runner) generateStubs(module *schema.Module, registry *schema.Registry) error {
	writer := generator.NewWriter(module, registry)
	if err := writer.GenerateAll(); err != nil {
		return errors.Wrapf(err, "generation failed for %s", module.Path)
	}

	pyi, err := writer.DumpsPyi()
	if err != nil {
		return err
	}
	py, err := writer.DumpsPy()
	if err != nil {
		return err
	}

	basePath, err := r.outputBase(module.Path)
	if err != nil {
		return err
	}

	for _, output := range []struct {
		text   string
		suffix string
	}{
		{text: pyi, suffix: PyiSuffix},
		{text: py, suffix: PySuffix},
	} {
		patched, _ := format.PatchGenerics(output.text)

		path := basePath + output.suffix
		if err := os.WriteFile(path, []byte(patched+"\n"), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}

		format.Apply(r.cfg.Format.Command, path)
		format.Apply(r.cfg.Format.ImportSorter, path)
	}

	logger.Info("Wrote stubs to '%s(%s/%s)'.", basePath, PyiSuffix, PySuffix)
	return nil
}

// outputBase computes the extension-less output path for a schema file,
// replacing the schema suffix with the declaration-module suffix.
func (r *Runner) outputBase(schemaPath string) (string, error) {
	outputDir := filepath.Dir(schemaPath)
	if r.cfg.Output != "" {
		outputDir = r.cfg.Output
		if !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(r.root, outputDir)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	base := pytext.ReplaceCapnpSuffix(filepath.Base(schemaPath))
	return filepath.Join(outputDir, base), nil
}
