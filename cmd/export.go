package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasks-go/internal/todo"
)

// exportCommand prints the list in a machine-readable format.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "json", "Output format (json|yaml|toml)")

	if ok, err := parseCommandFlags(fs, args); !ok {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st, closeStore := a.openStore(readOnly)
	defer closeStore()

	data, err := encodeTasks(st.List(ctx).Tasks, *format)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

// tomlDocument wraps the list, since a TOML document must be a table.
type tomlDocument struct {
	Tasks todo.List `toml:"tasks"`
}

func encodeTasks(tasks todo.List, format string) ([]byte, error) {
	if tasks == nil {
		tasks = todo.List{}
	}
	switch strings.ToLower(format) {
	case "json":
		return tasks.Encode()
	case "yaml", "yml":
		return yaml.Marshal(tasks)
	case "toml":
		var buf bytes.Buffer
		if err := writeTOML(&buf, tasks); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (expected json, yaml, or toml)", format)
	}
}

func writeTOML(w io.Writer, tasks todo.List) error {
	if err := toml.NewEncoder(w).Encode(tomlDocument{Tasks: tasks}); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}
