package cli

import "github.com/mibar/jtc/internal/optset"

// ParseArgv is the top-level entry point: splits argv into `/`-delimited
// option sets (spec.md §4.7), expands each set's `-e ... \;` shell spans,
// and getopt-parses the result into one Options per set.
func ParseArgv(argv []string) ([]Options, error) {
	raw := SplitSets(argv)
	out := make([]Options, 0, len(raw))
	for _, args := range raw {
		expanded, err := ExtractShellSpans(args)
		if err != nil {
			return nil, err
		}
		o, err := Parse(expanded)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// TransientsOf reports which of optset's transient options this set
// specified (spec.md §4.7), for the option-set driver's placement check.
func TransientsOf(o Options) map[optset.TransientOption]bool {
	t := make(map[optset.TransientOption]bool)
	if o.DebugCount > 0 {
		t[optset.OptDebug] = true
	}
	if o.HasIndent {
		t[optset.OptIndent] = true
	}
	if o.Raw || o.Stringify {
		t[optset.OptRaw] = true
	}
	if o.StrictSolidus {
		t[optset.OptQuoteSolidus] = true
	}
	if o.PrintSize || o.ReplaceSize {
		t[optset.OptSize] = true
	}
	if o.ForceWrite {
		t[optset.OptForceWrite] = true
	}
	if o.ReadStdin {
		t[optset.OptStdin] = true
	}
	return t
}
