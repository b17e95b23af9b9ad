package cli

// Guide is the embedded usage text printed by `-g` and exiting
// immediately (spec.md §6: "-g (print embedded guide and exit)").
const Guide = `jtc - a JSON walk-path transformation engine

usage: jtc [options] [file ...] [/ options ...]

A single executable operating on RFC 8259 JSON. Positional arguments are
input files; "-" forces reading from stdin. "/" splits the command line
into independent option sets, threading the resulting document and
namespace from one set into the next.

walk paths (-w):
  [label]          descend into an object label or array index
  [-n] / [^n]      ascend n levels / truncate the path to depth n
  <lex>suffix      recursive search forward
  >lex<suffix      recursive search backward (reversed result order)
  [lbl]:<lex>      attach a label filter to the following search

mutators:
  -c  compare      -i  insert      -u  update
  -s  swap         -p  purge (-pp inverts: keep ancestors/descendants only)
  -e  shell-evaluate the following -i/-u argument, terminated by \;

display:
  -j/-jj  wrap matches as an array / object
  -J      wrap all processed JSON inputs into one
  -l/-ll  include labels / glean inner labels
  -n/-nn  disable interleaving / suppress grouping
  -q/-qq  strict solidus parsing / unquote string values
  -r/-rr  raw output / stringify
  -t[N][c] indent by N spaces (c: semi-compact)
  -x N[/M] every N-th walk from offset M (parsed, not applied)
  -x/-y   partial / common walk parts (parsed, not assembled into -w)
  -z/-zz  print size / replace output with size

other:
  -a  accepted, no effect: the input is read as a single JSON value
  -d  increase debug verbosity (repeatable)
  -f  write the result back to the input file
  -m  toggle merge-mode for insert/update
  -g  print this guide and exit
`
