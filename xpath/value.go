package xpath

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogo-agent/xpathway/document"
)

// ExpandedName identifies a variable, function, or name test by its
// (namespace-URI, local-part) pair. It is the same pair package document
// uses for node names. AST leaves keep only their source prefix and local
// part; the expanded name is formed at evaluation time, per spec.md §4.4.
type ExpandedName = document.ExpandedName

// ValueType tags the four XPath 1.0 value kinds.
type ValueType uint8

const (
	NodeSetType ValueType = iota
	BooleanType
	NumberType
	StringType
)

func (t ValueType) String() string {
	switch t {
	case NodeSetType:
		return "node-set"
	case BooleanType:
		return "boolean"
	case NumberType:
		return "number"
	case StringType:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the tagged sum of the four XPath 1.0 result types. Every
// variant implements all four coercions; coercion never fails.
type Value interface {
	Type() ValueType
	Boolean() bool
	Number() float64
	String() string
	NodeSet() *NodeSet
}

// String, Boolean, Number are the scalar Value implementations; the
// node-set Value (nodeset.go, built by NewNodeSetValue) is the fourth.

type stringValue string

func (v stringValue) Type() ValueType   { return StringType }
func (v stringValue) String() string    { return string(v) }
func (v stringValue) Boolean() bool     { return len(v) > 0 }
func (v stringValue) Number() float64   { return stringToNumber(string(v)) }
func (v stringValue) NodeSet() *NodeSet { return nil }

type numberValue float64

func (v numberValue) Type() ValueType   { return NumberType }
func (v numberValue) String() string    { return numberToString(float64(v)) }
func (v numberValue) Boolean() bool     { return float64(v) != 0 && !math.IsNaN(float64(v)) }
func (v numberValue) Number() float64   { return float64(v) }
func (v numberValue) NodeSet() *NodeSet { return nil }

type booleanValue bool

func (v booleanValue) Type() ValueType   { return BooleanType }
func (v booleanValue) String() string    { return booleanToString(bool(v)) }
func (v booleanValue) Boolean() bool     { return bool(v) }
func (v booleanValue) Number() float64   { return booleanToNumber(bool(v)) }
func (v booleanValue) NodeSet() *NodeSet { return nil }

// String, Number, Boolean construct scalar Values.
func String(s string) Value { return stringValue(s) }
func Number(n float64) Value { return numberValue(n) }
func Boolean(b bool) Value   { return booleanValue(b) }

// xpathNumberPattern is the XPath 1.0 Number production (Digits ('.'
// Digits?)? | '.' Digits), with an optional sign and optional
// leading/trailing whitespace around it. It deliberately rejects
// anything strconv.ParseFloat would otherwise accept beyond that
// grammar: exponents ("1e3"), "Infinity"/"NaN" spellings, hex floats,
// and '_'-separated digit groups are all valid Go float literals but
// not valid XPath numbers, and must coerce to NaN instead.
var xpathNumberPattern = regexp.MustCompile(`^[ \t\r\n]*[+-]?(\d+(\.\d*)?|\.\d+)[ \t\r\n]*$`)

// stringToNumber implements the XPath 1.0 lexical number grammar:
// optional leading/trailing whitespace around an optionally-signed
// decimal number with no exponent. Anything else yields NaN.
func stringToNumber(s string) float64 {
	if !xpathNumberPattern.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// numberToString implements the XPath 1.0 number-to-string rules:
// integers print unsuffixed, NaN/Infinity/-Infinity print as those
// literal words, and -0 normalizes to "0".
func numberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0: // covers -0 per IEEE-754 equality
		return "0"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func booleanToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func booleanToNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
