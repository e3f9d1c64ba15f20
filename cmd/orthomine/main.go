// cmd/orthomine/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orthomine/internal/book"
	"orthomine/internal/errtypes"
	"orthomine/internal/folder"
	"orthomine/internal/progress"
	"orthomine/internal/registry"
	"orthomine/internal/store"
)

const version = "0.1.0"

// Command aliases mapping
var commandAliases = map[string]string{
	"a": "add",
	"p": "process",
	"g": "get",
	"d": "delete",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Println("orthomine " + version)
		return
	}

	switch cmd {
	case "add":
		die("add", addCommand(args[1:]))
	case "process":
		die("process", processCommand(args[1:]))
	case "get":
		die("get", getCommand(args[1:]))
	case "delete":
		die("delete", deleteCommand(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

// die reports err, if any, to stderr and exits the process with the code its
// error category maps to, per the CLI's error-to-exit-code contract. Errors
// that never went through errtypes exit 1, same as an uncategorized failure.
func die(cmdName string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "orthomine %s: %v\n", cmdName, err)
	var typed *errtypes.Error
	if errors.As(err, &typed) {
		os.Exit(typed.Category.ExitCode())
	}
	os.Exit(1)
}

func showUsage() {
	fmt.Println(`orthomine - orthotope discovery engine

Usage:
  orthomine add <file> --dsn <dsn>
  orthomine process --dsn <dsn> [--watch <addr>]
  orthomine get --dsn <dsn>
  orthomine delete --dsn <dsn>

Aliases: a=add, p=process, g=get, d=delete`)
}

// cliFlags is a minimal hand-rolled --flag value parser, matching the
// style of a discovery engine CLI with no config-file layer: every
// argument after the subcommand is either a bare positional or a
// "--name value" pair.
type cliFlags struct {
	positional []string
	named      map[string]string
}

func parseFlags(args []string) cliFlags {
	f := cliFlags{named: map[string]string{}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--") {
			name := strings.TrimPrefix(arg, "--")
			if i+1 < len(args) {
				f.named[name] = args[i+1]
				i++
			} else {
				f.named[name] = ""
			}
			continue
		}
		f.positional = append(f.positional, arg)
	}
	return f
}

func addCommand(args []string) error {
	f := parseFlags(args)
	if len(f.positional) == 0 {
		return errtypes.New(errtypes.MalformedInput, "add requires a file path")
	}
	path := f.positional[0]
	dsn := f.named["dsn"]
	if dsn == "" {
		return errtypes.New(errtypes.MalformedInput, "add requires --dsn")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errtypes.Wrap(errtypes.StoreUnavailable, "reading input file", err)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	b := book.FromText(filepath.Base(path), string(data), chunkNumber())
	encoded, err := registry.FromLines(b.Name, b.Provenance, b.Lines).Encode()
	if err != nil {
		return errtypes.Wrap(errtypes.SerializationMismatch, "encoding chunk", err)
	}

	return s.SaveChunk(ctx, store.Object{Key: b.Name, Data: encoded})
}

// chunkNumber is a placeholder sequence for file-to-chunk naming: every
// `add` invocation uses chunk 0, and there is no flag to choose another
// number.
func chunkNumber() int { return 0 }

func processCommand(args []string) error {
	f := parseFlags(args)
	dsn := f.named["dsn"]
	if dsn == "" {
		return errtypes.New(errtypes.MalformedInput, "process requires --dsn")
	}

	ctx := context.Background()
	s, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	var live *progress.LiveServer
	if addr, ok := f.named["watch"]; ok && addr != "" {
		live = progress.NewLiveServer(addr)
		if err := live.Start(); err != nil {
			return errtypes.Wrap(errtypes.StoreUnavailable, "starting watch server", err)
		}
		defer live.Shutdown(ctx)
	}

	for {
		did, err := processOnce(ctx, s, live)
		if err != nil {
			return err
		}
		if !did {
			return nil
		}
	}
}

func processOnce(ctx context.Context, s store.Store, live *progress.LiveServer) (bool, error) {
	if chunk, ok, err := s.CheckoutSmallestChunk(ctx); err != nil {
		return false, err
	} else if ok {
		r, err := registry.Decode(chunk.Data)
		if err != nil {
			return false, errtypes.Wrap(errtypes.SerializationMismatch, "decoding chunk", err)
		}
		report := progress.NewReport("single_process")
		folder.SingleProcess(r, reportHook(report, live))
		encoded, err := r.Encode()
		if err != nil {
			return false, errtypes.Wrap(errtypes.SerializationMismatch, "encoding answer", err)
		}
		if err := s.SaveAnswer(ctx, store.Object{Key: chunk.Key, Data: encoded}); err != nil {
			return false, err
		}
		if err := s.DeleteChunk(ctx, chunk.Key); err != nil {
			return false, err
		}
		return true, nil
	}

	largest, smallest, ok, err := s.CheckoutLargestAndSmallestAnswer(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	target, err := registry.Decode(largest.Data)
	if err != nil {
		return false, errtypes.Wrap(errtypes.SerializationMismatch, "decoding largest answer", err)
	}
	source, err := registry.Decode(smallest.Data)
	if err != nil {
		return false, errtypes.Wrap(errtypes.SerializationMismatch, "decoding smallest answer", err)
	}

	report := progress.NewReport("merge_process")
	folder.MergeProcess(source, target, reportHook(report, live))

	encoded, err := source.Encode()
	if err != nil {
		return false, errtypes.Wrap(errtypes.SerializationMismatch, "encoding merged answer", err)
	}
	if err := s.SaveAnswer(ctx, store.Object{Key: source.Name(), Data: encoded}); err != nil {
		return false, err
	}
	if err := s.DeleteAnswer(ctx, largest.Key); err != nil {
		return false, err
	}
	if err := s.DeleteAnswer(ctx, smallest.Key); err != nil {
		return false, err
	}
	return true, nil
}

// reportHook updates report and, when --watch is active, broadcasts it to
// the live server. When stderr is an interactive terminal it also overwrites
// the current line with a percentage bar; piped or redirected output gets
// no progress text at all, since nothing will render the '\r' sensibly.
func reportHook(report *progress.Report, live *progress.LiveServer) func(done, total int) {
	interactive := progress.IsTerminal(os.Stderr.Fd())
	return func(done, total int) {
		report.Update(done, total)
		if live != nil {
			live.Broadcast(report)
		}
		if interactive {
			fmt.Fprint(os.Stderr, report.Bar())
		}
	}
}

func getCommand(args []string) error {
	f := parseFlags(args)
	dsn := f.named["dsn"]
	if dsn == "" {
		return errtypes.New(errtypes.MalformedInput, "get requires --dsn")
	}

	ctx := context.Background()
	s, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	obj, ok, err := s.Dump(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no answers available")
		return nil
	}
	r, err := registry.Decode(obj.Data)
	if err != nil {
		return errtypes.Wrap(errtypes.SerializationMismatch, "decoding answer", err)
	}
	fmt.Print(progress.Summary(r))
	return nil
}

func deleteCommand(args []string) error {
	f := parseFlags(args)
	dsn := f.named["dsn"]
	if dsn == "" {
		return errtypes.New(errtypes.MalformedInput, "delete requires --dsn")
	}

	ctx := context.Background()
	s, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	key, ok, err := s.DeleteLargestAnswer(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no answers available")
		return nil
	}
	fmt.Printf("deleted %s at %s\n", key, time.Now().Format(time.RFC3339))
	return nil
}
