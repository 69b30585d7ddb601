package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `Usage:
  tsxtool inspect [-root dir] [-tile id] [-encode] <file.tsx>
  tsxtool validate [-root dir] [-lenient] [-assets] [-workers n] <dir|file.tsx>...
  tsxtool cook [-config pipeline.yaml] [-force]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "inspect":
		err = runInspect(args[1:], stdout)
	case "validate":
		err = runValidate(ctx, args[1:], stdout)
	case "cook":
		err = runCook(ctx, args[1:], stdout)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "tsxtool %s: %v\n", args[0], err)
		return 2
	}
	return 0
}
