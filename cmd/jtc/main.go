// Command jtc is a JSON walk-path transformation engine (spec.md): it
// reads one or more RFC 8259 documents, resolves walk paths against
// them, and applies comparison/insertion/update/swap/purge mutators or
// simply prints the matches.
//
// Argument parsing is hand-rolled in internal/cli (spec.md §6's getopt
// grammar can't be expressed through a flag library), so the cobra
// command here disables its own flag parsing and exists only for the
// command shell, usage template, and version plumbing — the same
// division hivekit's cmd/hivectl draws between cobra's command tree and
// its own subcommand-specific flag handling.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mibar/jtc/internal/cli"
	"github.com/mibar/jtc/internal/interleave"
	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/logging"
	"github.com/mibar/jtc/internal/namespace"
	"github.com/mibar/jtc/internal/ops"
	"github.com/mibar/jtc/internal/optset"
	"github.com/mibar/jtc/internal/walk"
	"github.com/mibar/jtc/internal/xwidth"
)

// exit codes (spec.md §7): option-parse and JSON-parse failures use 2,
// walk compile/evaluation failures use 3, a mismatched -c comparison
// uses 1, a failed shell source (its insert/update skipped) uses 4,
// everything else is 0.
const (
	exitOK          = 0
	exitMismatch    = 1
	exitParse       = 2
	exitWalk        = 3
	exitShellFailed = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := &cobra.Command{
		Use:                "jtc [options] [file ...] [/ options ...]",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableAutoGenTag:  true,
		Version:            "0.1.0",
	}
	code := exitOK
	root.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := execute(args, stdin, stdout, stderr)
		code = c
		return err
	}
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		if code == exitOK {
			code = exitParse
		}
	}
	return code
}

func execute(argv []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	for _, a := range argv {
		if a == "-g" || a == "--guide" {
			fmt.Fprint(stdout, cli.Guide)
			return exitOK, nil
		}
	}

	optSets, err := cli.ParseArgv(argv)
	if err != nil {
		return exitParse, err
	}
	if len(optSets) == 0 {
		return exitParse, fmt.Errorf("jtc: no options given")
	}

	first := optSets[0]
	log := logging.New(stderr, first.DebugCount)

	var files []string
	readStdin := first.ReadStdin
	for _, s := range optSets {
		files = append(files, s.Files...)
		if s.ReadStdin {
			readStdin = true
		}
	}

	input, file, err := readInput(files, readStdin, stdin)
	if err != nil {
		return exitParse, err
	}

	doc, perr := jval.Parse(input, jval.Options{RequireEscapedSolidus: first.StrictSolidus})
	if perr != nil {
		fmt.Fprintln(stderr, renderParseError(input, perr))
		return exitParse, nil
	}

	state := &runState{log: log}

	sets := make([]optset.Set, len(optSets))
	for i, o := range optSets {
		sets[i] = optset.Set{Args: nil, Transient: cli.TransientsOf(o)}
	}

	// Execute invokes run once per set, strictly in order, so a simple
	// counter maps each call back to the cli.Options it came from.
	idx := 0
	driver := optset.NewDriver(func(s optset.Set, in *jval.Value, ns *namespace.NS) (*jval.Value, error) {
		o := optSets[idx]
		idx++
		return state.runSet(o, in, ns, stdout)
	})

	global := namespace.New()
	outDoc, notices, err := driver.Execute(sets, doc, global, file)
	for _, n := range notices {
		log.Warn(n.Message)
	}
	if err != nil {
		if state.walkErr != nil {
			fmt.Fprintln(stderr, state.walkErr)
			return exitWalk, nil
		}
		return exitParse, err
	}

	last := optSets[len(optSets)-1]
	if last.ForceWrite && file != "" {
		if err := os.WriteFile(file, []byte(printDoc(outDoc, last)+"\n"), 0o644); err != nil {
			return exitParse, err
		}
	} else if !hasMutator(last) {
		// already streamed matches during runSet
	} else {
		fmt.Fprintln(stdout, printDoc(outDoc, last))
	}

	if state.mismatch {
		return exitMismatch, nil
	}
	if state.shellErr {
		return exitShellFailed, nil
	}
	return exitOK, nil
}

type runState struct {
	log      *slog.Logger
	mismatch bool
	walkErr  error
	shellErr bool
}

// runSet is the optset.Run implementation: it compiles every -w walk in
// this option set against doc, schedules their matches (spec.md §4.5),
// and applies whichever mutator this set named (spec.md §4.6).
func (st *runState) runSet(o cli.Options, doc *jval.Value, ns *namespace.NS, stdout io.Writer) (*jval.Value, error) {
	tree := jval.NewTree(doc)
	cache := walk.NewCache()

	walkSrcs := o.Walks
	if len(walkSrcs) == 0 {
		walkSrcs = []string{""}
	}

	matchesByWalk := make([][]interleave.Match, len(walkSrcs))
	for i, raw := range walkSrcs {
		steps, err := walk.Compile(raw)
		if err != nil {
			st.walkErr = fmt.Errorf("jtc: walk %q: %w", raw, err)
			return doc, st.walkErr
		}
		it := walk.NewIterator(steps, tree, cache, ns)
		ms, err := interleave.Materialize(i, it)
		if err != nil {
			st.walkErr = fmt.Errorf("jtc: walk %q: %w", raw, err)
			return doc, st.walkErr
		}
		matchesByWalk[i] = ms
	}

	var results []interleave.Result
	if o.NoInterleave {
		results = interleave.Sequential(matchesByWalk)
	} else {
		results = interleave.Schedule(matchesByWalk)
	}

	dests := make([]ops.Dest, len(results))
	for i, r := range results {
		dests[i] = ops.Dest{
			Value:         r.Value,
			Depth:         len(r.Path),
			IsLabelUpdate: r.IsLabelUpdate,
		}
	}

	switch {
	case len(o.Compares) > 0:
		src := sourceFor(o.Compares[0], o.ShellUpdate || o.ShellInsert, ns, currentValueFor(dests))
		pairs, err := ops.Bind(dests, src)
		if err != nil {
			return doc, err
		}
		results := ops.Compare(pairs)
		if ops.AnyMismatch(results) {
			st.mismatch = true
		}

	case len(o.Inserts) > 0:
		src := sourceFor(o.Inserts[0], o.ShellInsert, ns, currentValueFor(dests))
		pairs, err := ops.Bind(dests, src)
		if err != nil {
			// Shell subprocess failure (spec.md §7 kind 4): the
			// corresponding insert is skipped, not fatal to the run.
			st.shellErr = true
			st.log.Warn(fmt.Sprintf("shell source failed, insert skipped: %v", err))
			break
		}
		if err := ops.Insert(tree, pairs, o.MergeMode); err != nil {
			return doc, err
		}
		normalizeAll(tree, doc)

	case len(o.Updates) > 0:
		src := sourceFor(o.Updates[0], o.ShellUpdate, ns, currentValueFor(dests))
		pairs, err := ops.Bind(dests, src)
		if err != nil {
			st.shellErr = true
			st.log.Warn(fmt.Sprintf("shell source failed, update skipped: %v", err))
			break
		}
		if err := ops.Update(tree, pairs, o.MergeMode); err != nil {
			return doc, err
		}
		normalizeAll(tree, doc)

	case len(o.Swaps) > 0:
		steps2, err := walk.Compile(o.Swaps[0])
		if err != nil {
			st.walkErr = fmt.Errorf("jtc: swap walk %q: %w", o.Swaps[0], err)
			return doc, st.walkErr
		}
		it2 := walk.NewIterator(steps2, tree, cache, ns)
		matches2, err := interleave.Materialize(0, it2)
		if err != nil {
			return doc, err
		}
		n := len(dests)
		if len(matches2) < n {
			n = len(matches2)
		}
		// Both sides come from matches just materialized in this call, so
		// neither can yet have been invalidated by an earlier pair's own
		// swap; a nil Validator reports "always valid" (ops.SwapSide).
		// Cross-pair invalidation within this same -s still can't occur
		// since swapValues only replaces by parent+key, not by identity,
		// so a later pair referencing an already-swapped node still
		// resolves correctly.
		pairs := make([][2]ops.SwapSide, n)
		for i := 0; i < n; i++ {
			pairs[i] = [2]ops.SwapSide{
				{Value: dests[i].Value},
				{Value: matches2[i].Value},
			}
		}
		outcomes, err := ops.Swap(tree, pairs)
		if err != nil {
			return doc, err
		}
		for i, oc := range outcomes {
			if oc.Skipped {
				st.log.Warn(fmt.Sprintf("swap pair %d skipped: destination invalidated by a prior swap", i))
			}
		}

	case o.Purges > 0:
		if err := ops.Purge(tree, dests, o.Purges >= 2); err != nil {
			return doc, err
		}

	case len(o.Templates) > 0:
		pairs := applyTemplates(o, len(walkSrcs), ns, dests, results)
		if err := ops.Update(tree, pairs, false); err != nil {
			return doc, err
		}
		normalizeAll(tree, doc)
		entries := make([]printEntry, len(pairs))
		for i, p := range pairs {
			entries[i] = printEntry{
				path:        results[i].Path,
				value:       p.Src,
				groupSize:   results[i].GroupSize,
				lowestFront: results[i].LowestFront,
			}
		}
		renderEntries(stdout, entries, o)

	default:
		entries := make([]printEntry, len(dests))
		for i, d := range dests {
			entries[i] = printEntry{
				path:        results[i].Path,
				value:       d.Value,
				groupSize:   results[i].GroupSize,
				lowestFront: results[i].LowestFront,
			}
		}
		renderEntries(stdout, entries, o)
	}

	return doc, nil
}

// sourceFor resolves one mutator's source argument: a shell span (if the
// set's -e attached to this mutator), otherwise a JSON literal, falling
// back to a bare string when the argument doesn't parse as JSON (spec.md
// §4.6's "static JSON ... or a bare atom"). A shell span is interpolated
// against ns first (spec.md §4.4 "shell interpolation"), with every
// substituted fragment shell-quoted, before it is handed to ops.Shell.
func sourceFor(raw string, shell bool, ns *namespace.NS, current *jval.Value) ops.Source {
	if shell {
		return ops.Shell(namespace.InterpolateShell(raw, ns, current))
	}
	if v, err := jval.Parse([]byte(raw), jval.Options{}); err == nil {
		return ops.Static(v)
	}
	return ops.Static(jval.NewString(raw))
}

// currentValueFor picks the value bound to a shell span's empty `{}`/
// `{{}}` token (spec.md §4.4): the first destination's match, mirroring
// ops.Bind's own "single destination" simplification, since a mutator's
// source is evaluated once per set rather than once per destination.
func currentValueFor(dests []ops.Dest) *jval.Value {
	if len(dests) == 0 {
		return nil
	}
	return dests[0].Value
}

// applyTemplates builds the -T update pairs (spec.md §4.4). A template
// is assigned per walk — template i attaches to walk i's matches, via
// each result's WalkIndex — when the number of templates equals the
// number of walks and grouping hasn't been doubly suppressed; otherwise
// templates cycle round-robin across match positions. Each template is
// interpolated against ns with the match as the current value, and the
// outcome replaces the match outright: parsed as JSON when it parses,
// otherwise wrapped as a JSON string.
func applyTemplates(o cli.Options, walkCount int, ns *namespace.NS, dests []ops.Dest, results []interleave.Result) []ops.Pair {
	perWalk := len(o.Templates) == walkCount && !o.NoGrouping
	pairs := make([]ops.Pair, len(dests))
	for i, d := range dests {
		var tmpl string
		if perWalk {
			tmpl = o.Templates[results[i].WalkIndex]
		} else {
			tmpl = o.Templates[i%len(o.Templates)]
		}
		out := namespace.Interpolate(tmpl, ns, d.Value)
		newVal, err := jval.Parse([]byte(out), jval.Options{})
		if err != nil {
			newVal = jval.NewString(out)
		}
		pairs[i] = ops.Pair{Dest: d, Src: newVal}
	}
	return pairs
}

// printEntry is one printed position, carrying both the value to print
// and the scheduling metadata the display flags need: the originating
// walk path (for -l/-ll) and the interleaving scheduler's grouping
// metadata (for -j/-jj/-J, spec.md §4.5(c)).
type printEntry struct {
	path        []string
	value       *jval.Value
	groupSize   int
	lowestFront int
}

// renderEntries prints one pass of matches honoring the display flags of
// spec.md §6: -z/-zz report size, -l/-ll prefix a label, and -j/-jj/-J
// wrap the whole pass into a single JSON array or object.
func renderEntries(w io.Writer, entries []printEntry, o cli.Options) {
	cfg := printerConfigFor(o)
	if o.WrapArray || o.WrapObject || o.WrapAllOne {
		fmt.Fprintln(w, jval.Print(wrapEntries(entries, o), cfg))
		return
	}
	for _, e := range entries {
		v := e.value
		if o.ReplaceSize {
			v = jval.NewNumber(valueSize(e.value))
		}
		line := jval.Print(v, cfg)
		if o.PrintSize && !o.ReplaceSize {
			line = fmt.Sprintf("%s\t%s", line, jval.Print(jval.NewNumber(valueSize(e.value)), jval.PrinterConfig{}))
		}
		if label, ok := labelFor(e, o); ok {
			line = fmt.Sprintf("%s: %s", strconv.Quote(label), line)
		}
		fmt.Fprintln(w, line)
	}
}

// labelFor implements -l/-ll's label choice: -ll ("glean inner labels")
// joins the whole walk path, -l takes just the match's own label.
func labelFor(e printEntry, o cli.Options) (string, bool) {
	if len(e.path) == 0 {
		return "", false
	}
	if o.InnerLabels {
		return strings.Join(e.path, "/"), true
	}
	if o.IncludeLabels {
		return e.path[len(e.path)-1], true
	}
	return "", false
}

// valueSize computes -z/-zz's reported size: rune length for strings,
// child count (v.Len()) otherwise. internal/walk/eval.go's sizeOf, used
// by the `Z` directive, splits differently: rune length (or -1 for a
// non-string) only in its character-count mode, otherwise a recursive
// descendant count for `<>Z` and v.Len() for `><Z`.
func valueSize(v *jval.Value) float64 {
	if v.Kind() == jval.String {
		return float64(len([]rune(v.Str())))
	}
	return float64(v.Len())
}

// wrapEntries builds the single JSON value -j/-jj/-J print (spec.md §6).
// -j alone flattens everything into an array. -jj/-J build an object,
// using the interleaving scheduler's GroupSize/LowestFront (spec.md
// §4.5(c)) to open a new nested object each time the competing group
// changes; -nn flattens this to one level regardless (spec.md §4.5
// "Sequential").
func wrapEntries(entries []printEntry, o cli.Options) *jval.Value {
	if o.WrapArray && !o.WrapObject {
		arr := jval.NewArray()
		t := jval.NewTree(arr)
		for _, e := range entries {
			t.PushBack(arr, entryValue(e, o))
		}
		return arr
	}

	obj := jval.NewObject()
	t := jval.NewTree(obj)
	grouped := !o.NoGrouping
	var cur *jval.Value
	haveGroup := false
	lastFront := 0
	groupIdx := 0
	for i, e := range entries {
		target := obj
		if grouped && e.groupSize > 1 {
			if !haveGroup || e.lowestFront != lastFront {
				cur = jval.NewObject()
				t.SetLabel(obj, strconv.Itoa(groupIdx), cur, false)
				groupIdx++
				haveGroup = true
			}
			lastFront = e.lowestFront
			target = cur
		} else {
			haveGroup = false
		}
		t.SetLabel(target, entryKey(target, e, o, i), entryValue(e, o), false)
	}
	return obj
}

func entryValue(e printEntry, o cli.Options) *jval.Value {
	if o.ReplaceSize {
		return jval.NewNumber(valueSize(e.value))
	}
	return e.value.Clone()
}

// entryKey picks the key for one wrapped entry: its own label when -l/-ll
// is set and the label doesn't clash within its container, the entry's
// position in the overall pass otherwise (always unique).
func entryKey(container *jval.Value, e printEntry, o cli.Options, idx int) string {
	if label, ok := labelFor(e, o); ok {
		if _, clash := container.Get(label); !clash {
			return label
		}
	}
	return strconv.Itoa(idx)
}

func printDoc(doc *jval.Value, o cli.Options) string {
	return jval.Print(doc, printerConfigFor(o))
}

func printerConfigFor(o cli.Options) jval.PrinterConfig {
	cfg := jval.PrinterConfig{Mode: jval.Raw, Inquote: o.Stringify, Unquote: o.UnquoteValues}
	if o.HasIndent {
		cfg.Mode = jval.Pretty
		if o.SemiCompact {
			cfg.Mode = jval.SemiCompact
		}
		cfg.Indent = strings.Repeat(" ", o.Indent)
	}
	return cfg
}

func hasMutator(o cli.Options) bool {
	return len(o.Compares) > 0 || len(o.Inserts) > 0 || len(o.Updates) > 0 ||
		len(o.Swaps) > 0 || o.Purges > 0
}

// normalizeAll renumbers every array's hex-encoded indices after a
// mutation pass, so later walks in the same set see a densely ordered
// container rather than the append/insert gaps jval.Tree leaves behind
// (jval/value.go's doc comment on PushFront/PushBack).
func normalizeAll(t *jval.Tree, v *jval.Value) {
	if v.Kind() == jval.Array {
		t.NormalizeIdx(v)
	}
	if v.IsContainer() {
		for _, c := range v.Children() {
			normalizeAll(t, c)
		}
	}
}

func readInput(files []string, readStdin bool, stdin io.Reader) ([]byte, string, error) {
	if len(files) == 0 || readStdin {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("jtc: read stdin: %w", err)
		}
		return b, "", nil
	}
	b, err := os.ReadFile(files[0])
	if err != nil {
		return nil, "", fmt.Errorf("jtc: open %s: %w", files[0], err)
	}
	return b, files[0], nil
}

// renderParseError formats a JSON parse failure with a terminal-width
// bounded, UTF-8-aware excerpt around the offending byte offset
// (spec.md §7 kind 2).
func renderParseError(src []byte, err error) string {
	pe, ok := err.(*jval.ParseError)
	if !ok {
		return fmt.Sprintf("jtc: %v", err)
	}
	excerpt := xwidth.Excerpt(src, pe.Offset, xwidth.TerminalWidth())
	return fmt.Sprintf("jtc: parse error: %v\n%s", pe, excerpt)
}
