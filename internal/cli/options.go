// Package cli implements jtc's getopt-style argv grammar (spec.md §6):
// short options only, several of them repeatable with cumulative meaning
// (-d, -j, -l, -n, -q, -r, -t, -x/-y, -z), `/`-separated option sets, and
// a `-e ... \;` shell-command span. Cobra's flag model can't express
// this — interleaved, order-significant, repeatable short options split
// by a bare token — so parsing stays hand-rolled here; cmd/jtc only asks
// cobra for the command shell, usage template, and version plumbing.
package cli

// Options is one option set's parsed command line (spec.md §4.7: each
// `/`-delimited set behaves like an independent run, so a fresh Options
// is produced per set).
type Options struct {
	AllJSONs   bool // -a
	DebugCount int  // -d, repeatable

	Inserts  []string // -i arguments (JSON literal, else a bare string; or a shell span); not read as a file or walk
	Updates  []string // -u
	Compares []string // -c
	Swaps    []string // -s
	Purges   int      // -p count (1 or 2 for -pp)

	ShellInsert bool // -e attached to the most recent -i/-u
	ShellUpdate bool

	Walks     []string // -w
	Templates []string // -T

	WrapArray  bool // -j
	WrapObject bool // -jj
	WrapAllOne bool // -J

	IncludeLabels bool // -l
	InnerLabels   bool // -ll

	MergeMode bool // -m

	NoInterleave bool // -n
	NoGrouping   bool // -nn

	StrictSolidus bool // -q
	UnquoteValues bool // -qq

	Raw       bool // -r
	Stringify bool // -rr

	Indent       int  // -t
	SemiCompact  bool // -tc suffix
	HasIndent    bool
	ForceWrite   bool // -f
	PrintGuide   bool // -g

	PrintSize    bool // -z
	ReplaceSize  bool // -zz

	CommonWalkParts  []string // -y
	PartialWalkParts []string // -x (when not the throttle form)
	ThrottleN        int      // -x N[/M]
	ThrottleM        int
	HasThrottle      bool

	Files      []string // positional arguments
	ReadStdin  bool     // literal "-"
}
