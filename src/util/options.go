// options.go provides command line argument parsing for the oatc driver.
// The flag set is intentionally small: the CLI is an external collaborator
// around the compiler core, not part of it.

package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the parsed command line configuration for a compiler run.
type Options struct {
	Src         string // Path to source file. Empty means read stdin.
	Out         string // Path to output file. Empty means stdout.
	Threads     int    // Number of goroutines allowed to type-check functions in parallel.
	Verbose     bool   // Print diagnostic information about each stage to stdout.
	StopAtAsm   bool   // -S: stop after emitting assembly text.
	StopAtObj   bool   // -c: stop after assembling to an object file (requires an external assembler).
	LinuxLabels bool   // --linux: emit GAS/ELF label syntax instead of Mach-O underscore-prefixed labels.
	LLVM        bool   // -llvm: use the llvmgen backend instead of the native x86 backend.
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64
const appVersion = "oatc 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses os.Args[1:] into an Options structure.
func ParseArgs() (Options, error) {
	opt := Options{Threads: 1}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-S":
			opt.StopAtAsm = true
		case "-c":
			opt.StopAtObj = true
		case "--linux":
			opt.LinuxLabels = true
		case "-llvm":
			opt.LLVM = true
		case "-vb":
			opt.Verbose = true
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-t":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			t, err := strconv.Atoi(args[i1+1])
			if err != nil || t < 1 || t > maxThreads {
				return opt, fmt.Errorf("thread count must be an integer in range [1, %d]", maxThreads)
			}
			opt.Threads = t
			i1++
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, --help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the output file. Defaults to stdout.")
	_, _ = fmt.Fprintln(w, "-S\tStop after emitting assembly text.")
	_, _ = fmt.Fprintln(w, "-c\tStop after assembling to an object file.")
	_, _ = fmt.Fprintln(w, "--linux\tEmit GAS label syntax instead of Mach-O underscore-prefixed labels.")
	_, _ = fmt.Fprintln(w, "-llvm\tUse the llvmgen backend instead of the native x86 backend.")
	_, _ = fmt.Fprintf(w, "-t\tNumber of goroutines allowed to type-check functions in parallel. Range [1, %d].\n", maxThreads)
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler diagnostics to stdout.")
	_, _ = fmt.Fprintln(w, "-v, --version\tPrints application version and exits.")
	_ = w.Flush()
}
