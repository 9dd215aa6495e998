// Command oatc compiles Oat source to x86-64 assembly (or, with -llvm,
// asks LLVM to do it): parse args, read source, run the pipeline, write
// output.
package main

import (
	"fmt"
	"os"
	"strings"

	"oatc/src/backend"
	"oatc/src/check"
	"oatc/src/fold"
	"oatc/src/frontend"
	"oatc/src/llvmgen"
	"oatc/src/lower"
	"oatc/src/symbol"
	"oatc/src/util"
)

// run executes the full compiler pipeline described by opt, accumulating
// the program's final assembly text into w.
func run(opt util.Options, w *util.Writer) error {
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	sess := symbol.NewSession()
	prog, err := frontend.Parse(src, sess)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if errs := check.Program(prog, opt.Threads); len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("type error:\n%s", strings.Join(lines, "\n"))
	}

	prog = fold.Program(prog, opt.Threads)
	ll := lower.Lower(sess, prog)

	if opt.Verbose {
		fmt.Fprintln(os.Stderr, ll.String())
	}

	if opt.LLVM {
		ctx, mod, err := llvmgen.Generate(ll, moduleName(opt.Src))
		if err != nil {
			return fmt.Errorf("llvm error: %w", err)
		}
		defer ctx.Dispose()
		asm, err := llvmgen.EmitAssembly(mod, "")
		if err != nil {
			return fmt.Errorf("llvm error: %w", err)
		}
		w.WriteString(asm)
		return nil
	}

	w.WriteString(backend.Generate(ll, opt.LinuxLabels).String())
	return nil
}

func moduleName(src string) string {
	if src == "" {
		return "oat_module"
	}
	return src
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "oatc: %s\n", err)
		os.Exit(1)
	}

	w := util.NewWriter()
	if err := run(opt, w); err != nil {
		fmt.Fprintf(os.Stderr, "oatc: %s\n", err)
		os.Exit(1)
	}

	if opt.Out == "" {
		if err := w.Flush(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "oatc: %s\n", err)
			os.Exit(1)
		}
		return
	}
	f, err := os.Create(opt.Out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oatc: could not write %s: %s\n", opt.Out, err)
		os.Exit(1)
	}
	if err := w.Flush(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "oatc: could not write %s: %s\n", opt.Out, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "oatc: could not write %s: %s\n", opt.Out, err)
		os.Exit(1)
	}
}
