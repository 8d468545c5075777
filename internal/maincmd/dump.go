package maincmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mna/mainer"
	"github.com/mna/nacre/lang/persist"
	"github.com/mna/nacre/lang/stdlib"
	"github.com/mna/nacre/lang/types"
)

// Dump decodes each JSON file into a value graph and prints its
// reconstruction script to stdout.
func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	logger := c.newLogger(stdio)

	reg, err := persist.BuildRegistry(stdlib.Namespace())
	if err != nil {
		return printError(stdio, err)
	}
	d := persist.Dumper{Registry: reg, MaxEntries: c.MaxEntries}

	for _, file := range args {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		start := time.Now()
		root, err := decodeFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		script, err := d.Dump(root)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", file, err))
		}
		fmt.Fprint(stdio.Stdout, script)
		logger.Debug("dumped", "file", file, "duration", time.Since(start))
	}
	return nil
}

func (c *Cmd) newLogger(stdio mainer.Stdio) *log.Logger {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(stdio.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func decodeFile(file string) (*types.Map, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	root, ok := jsonToValue(doc).(*types.Map)
	if !ok {
		return nil, fmt.Errorf("%s: top-level JSON value must be an object or an array", file)
	}
	return root, nil
}

// jsonToValue converts a decoded JSON document to a runtime value. Objects
// become maps with string keys inserted in sorted order so that the
// resulting scripts are deterministic; arrays become maps with int keys
// starting at 1.
func jsonToValue(v any) types.Value {
	switch v := v.(type) {
	case nil:
		return types.Nil
	case bool:
		return types.Bool(v)
	case float64:
		if v == float64(int64(v)) {
			return types.Int(int64(v))
		}
		return types.Float(v)
	case string:
		return types.String(v)
	case []any:
		m := types.NewMap(len(v))
		for i, elem := range v {
			_ = m.SetKey(types.Int(i+1), jsonToValue(elem))
		}
		return m
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := types.NewMap(len(v))
		for _, k := range keys {
			_ = m.SetKey(types.String(k), jsonToValue(v[k]))
		}
		return m
	default:
		return types.String(fmt.Sprint(v))
	}
}
