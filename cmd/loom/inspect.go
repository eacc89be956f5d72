package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loom-ml/loom/aot"
	"github.com/loom-ml/loom/function"
	"github.com/loom-ml/loom/op"
)

var (
	inspectGraphPath string

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a graph definition",
		RunE:  runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringVar(&inspectGraphPath, "graph", "", "graph definition JSON file")
	_ = inspectCmd.MarkFlagRequired("graph")
}

func runInspect(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(inspectGraphPath)
	if err != nil {
		return err
	}

	edges := 0
	ops := make(map[string]int)
	funcRefs := 0
	lib := function.NewLibrary(op.NewRegistry())
	for _, n := range g.Nodes() {
		ops[n.Op()]++
		edges += len(g.OutEdges(n))
		if aot.HasAssociatedFunction(n.Def(), lib) {
			funcRefs++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "nodes: %d\n", g.NumNodes())
	fmt.Fprintf(out, "edges: %d\n", edges)
	if funcRefs > 0 {
		fmt.Fprintf(out, "nodes referencing functions: %d\n", funcRefs)
	}
	fmt.Fprintln(out, "ops:")
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, ops[name])
	}
	return nil
}
