// Package parser is the boundary to the external schema parser. The stub
// generator never parses capnp syntax itself: a configured parser command is
// run per schema file and hands back the serialized node graph, which is
// decoded into a navigable module.
package parser

import (
	"bytes"
	"os/exec"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/logger"
	"github.com/tristendillon/capnp-stubgen/core/schema"
)

// Parser loads one schema file into a module graph.
type Parser interface {
	Load(path string) (*schema.Module, error)
}

// CommandParser shells out to an external parser command. The schema file
// path is appended as the final argument; the command must print the graph
// document on stdout.
type CommandParser struct {
	command []string
}

// NewCommandParser validates and wraps the configured parser command.
func NewCommandParser(command []string) (*CommandParser, error) {
	if len(command) == 0 {
		return nil, errors.New("no schema parser command configured")
	}
	return &CommandParser{command: command}, nil
}

func (p *CommandParser) Load(path string) (*schema.Module, error) {
	args := append(append([]string(nil), p.command[1:]...), path)
	cmd := exec.Command(p.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Parsing %s via %q", path, p.command[0])

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "schema parser failed on %s: %s", path, stderr.String())
	}

	return schema.DecodeModule(stdout.Bytes(), path)
}
