// Command xpathway evaluates an XPath 1.0 expression against one or more
// XML documents. It is a reference front-end (spec.md §6), not part of
// the core library: everything it does is reachable through package
// xpath's embedding API.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogo-agent/xpathway/document"
	"github.com/gogo-agent/xpathway/xpath"
)

var (
	xpathExpr   string
	namespaces  []string
	stringVars  []string
	numberVars  []string
	booleanVars []string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "xpathway FILE...",
		Short:        "Evaluate an XPath 1.0 expression against XML documents",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runRoot,
	}
	cmd.Flags().StringVar(&xpathExpr, "xpath", "", "the XPath expression to evaluate (required)")
	cmd.Flags().StringArrayVar(&namespaces, "namespace", nil, "namespace binding PREFIX:URI (repeatable)")
	cmd.Flags().StringArrayVar(&stringVars, "string", nil, "bind a string variable NAME=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&numberVars, "number", nil, "bind a number variable NAME=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&booleanVars, "boolean", nil, "bind a boolean variable NAME=VALUE (repeatable)")
	cmd.MarkFlagRequired("xpath")
	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	ast, err := xpath.Compile(xpathExpr)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", xpathExpr, err)
	}

	for _, filename := range args {
		if err := evaluateFile(cmd.OutOrStdout(), ast, filename); err != nil {
			return err
		}
	}
	return nil
}

func evaluateFile(out io.Writer, ast *xpath.AST, filename string) error {
	tree, err := loadDocument(filename)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	bindings := xpath.NewContext()
	if err := bindNamespaces(bindings); err != nil {
		return err
	}
	if err := bindVariables(bindings); err != nil {
		return err
	}

	result, err := xpath.Evaluate(ast, bindings, tree.Root())
	if err != nil {
		return fmt.Errorf("%s: evaluating %q: %w", filename, xpathExpr, err)
	}

	fmt.Fprintln(out, result.String())
	return nil
}

func loadDocument(filename string) (*document.Tree, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return document.DecodeBytes(data)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return document.Decode(f)
}

func splitNameValue(s string, sep byte) (string, string, bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func bindNamespaces(ctx *xpath.Context) error {
	for _, spec := range namespaces {
		prefix, uri, ok := splitNameValue(spec, ':')
		if !ok {
			return fmt.Errorf("malformed --namespace %q, want PREFIX:URI", spec)
		}
		ctx.BindNamespace(prefix, uri)
	}
	return nil
}

func bindVariables(ctx *xpath.Context) error {
	for _, spec := range stringVars {
		name, val, ok := splitNameValue(spec, '=')
		if !ok {
			return fmt.Errorf("malformed --string %q, want NAME=VALUE", spec)
		}
		ctx.SetVariable(xpath.ExpandedName{Local: name}, xpath.String(val))
	}
	for _, spec := range numberVars {
		name, val, ok := splitNameValue(spec, '=')
		if !ok {
			return fmt.Errorf("malformed --number %q, want NAME=VALUE", spec)
		}
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("malformed --number value %q: %w", val, err)
		}
		ctx.SetVariable(xpath.ExpandedName{Local: name}, xpath.Number(n))
	}
	for _, spec := range booleanVars {
		name, val, ok := splitNameValue(spec, '=')
		if !ok {
			return fmt.Errorf("malformed --boolean %q, want NAME=VALUE", spec)
		}
		var b bool
		switch val {
		case "true":
			b = true
		case "false":
			b = false
		default:
			return fmt.Errorf("malformed --boolean value %q, want true or false", val)
		}
		ctx.SetVariable(xpath.ExpandedName{Local: name}, xpath.Boolean(b))
	}
	return nil
}
