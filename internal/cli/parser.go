package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is an option-parse failure (spec.md §7 kind 1): "unknown
// option, missing argument — printed to stderr with auto-generated
// usage."
type ParseError struct {
	Arg     string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jtc: %s: %s", e.Arg, e.Message)
}

// SplitSets splits a full argv slice into `/`-delimited option sets
// (spec.md §4.7): a bare "/" token (not part of any option's argument)
// starts a new set. Escaping a literal "/" in a walk or template string
// is the caller's concern at the shell level; this only recognizes a
// standalone "/" token.
func SplitSets(argv []string) [][]string {
	var sets [][]string
	cur := []string{}
	for _, a := range argv {
		if a == "/" {
			sets = append(sets, cur)
			cur = []string{}
			continue
		}
		cur = append(cur, a)
	}
	sets = append(sets, cur)
	return sets
}

// Parse parses one option set's argv tokens into Options.
func Parse(args []string) (Options, error) {
	var o Options
	lastMutator := byte(0) // tracks which of -i/-u most recently opened, for -e attachment

	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "-" {
			o.ReadStdin = true
			continue
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			o.Files = append(o.Files, a)
			continue
		}

		body := a[1:]
		if body == "" {
			return o, &ParseError{Arg: a, Message: "empty option"}
		}

		j := 0
		for j < len(body) {
			c := body[j]
			switch c {
			case 'a':
				o.AllJSONs = true
			case 'd':
				o.DebugCount++
			case 'g':
				o.PrintGuide = true
			case 'f':
				o.ForceWrite = true
			case 'm':
				o.MergeMode = true
			case 'j':
				if j+1 < len(body) && body[j+1] == 'j' {
					o.WrapObject = true
					j++
				} else {
					o.WrapArray = true
				}
			case 'J':
				o.WrapAllOne = true
			case 'l':
				if j+1 < len(body) && body[j+1] == 'l' {
					o.InnerLabels = true
					j++
				} else {
					o.IncludeLabels = true
				}
			case 'n':
				if j+1 < len(body) && body[j+1] == 'n' {
					o.NoGrouping = true
					j++
				} else {
					o.NoInterleave = true
				}
			case 'q':
				if j+1 < len(body) && body[j+1] == 'q' {
					o.UnquoteValues = true
					j++
				} else {
					o.StrictSolidus = true
				}
			case 'r':
				if j+1 < len(body) && body[j+1] == 'r' {
					o.Stringify = true
					j++
				} else {
					o.Raw = true
				}
			case 'z':
				if j+1 < len(body) && body[j+1] == 'z' {
					o.ReplaceSize = true
					j++
				} else {
					o.PrintSize = true
				}
			case 'p':
				o.Purges++
				if j+1 < len(body) && body[j+1] == 'p' {
					o.Purges++
					j++
				}
			case 'e':
				switch lastMutator {
				case 'i':
					o.ShellInsert = true
				case 'u':
					o.ShellUpdate = true
				default:
					return o, &ParseError{Arg: a, Message: "-e must follow -i or -u"}
				}
			case 't':
				rest := body[j+1:]
				semi := strings.HasSuffix(rest, "c")
				numPart := rest
				if semi {
					numPart = rest[:len(rest)-1]
				}
				n := 0
				if numPart != "" {
					v, err := strconv.Atoi(numPart)
					if err != nil {
						return o, &ParseError{Arg: a, Message: "invalid indent value"}
					}
					n = v
				}
				o.Indent, o.SemiCompact, o.HasIndent = n, semi, true
				j = len(body)
			case 'i', 'u', 'c', 's', 'w', 'T', 'y':
				val, nj, err := takeValue(args, &i, body, j)
				if err != nil {
					return o, err
				}
				j = nj
				switch c {
				case 'i':
					o.Inserts = append(o.Inserts, val)
					lastMutator = 'i'
				case 'u':
					o.Updates = append(o.Updates, val)
					lastMutator = 'u'
				case 'c':
					o.Compares = append(o.Compares, val)
				case 's':
					o.Swaps = append(o.Swaps, val)
				case 'w':
					o.Walks = append(o.Walks, val)
				case 'T':
					o.Templates = append(o.Templates, val)
				case 'y':
					o.CommonWalkParts = append(o.CommonWalkParts, val)
				}
			case 'x':
				rest := body[j+1:]
				if n, m, ok := parseThrottle(rest); ok {
					o.ThrottleN, o.ThrottleM, o.HasThrottle = n, m, true
					j = len(body)
					continue
				}
				val, nj, err := takeValue(args, &i, body, j)
				if err != nil {
					return o, err
				}
				j = nj
				o.PartialWalkParts = append(o.PartialWalkParts, val)
			default:
				return o, &ParseError{Arg: a, Message: fmt.Sprintf("unknown option -%c", c)}
			}
			j++
		}
	}
	return o, nil
}

// takeValue returns the argument bound to option body[j], consuming
// either the remainder of body (attached form, -iVALUE) or the next argv
// token (split form, -i VALUE), and reports the index j should resume
// from (end of body, since an attached/split value consumes the rest of
// this token's option run).
func takeValue(args []string, i *int, body string, j int) (string, int, error) {
	if j+1 < len(body) {
		return body[j+1:], len(body) - 1, nil
	}
	*i++
	if *i >= len(args) {
		return "", j, &ParseError{Arg: "-" + string(body[j]), Message: "missing argument"}
	}
	return args[*i], len(body) - 1, nil
}

// parseThrottle recognizes the `-x N[/M]` display-throttle form (spec.md
// §6) distinct from `-x <walk-part>`: a throttle spec is purely numeric,
// optionally with a `/M` offset.
func parseThrottle(rest string) (n, m int, ok bool) {
	if rest == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(rest, "/", 2)
	nv, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return nv, 0, true
	}
	mv, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return nv, mv, true
}
