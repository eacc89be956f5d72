package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loom-ml/loom/aot"
	"github.com/loom-ml/loom/graph"
	"github.com/loom-ml/loom/op"
)

var (
	prepareGraphPath  string
	prepareConfigPath string
	prepareOutPath    string

	prepareCmd = &cobra.Command{
		Use:   "prepare",
		Short: "Validate a compile config and rewrite a graph for compilation",
		Long: `Prepare reads a graph definition and a compile config, replaces the
fed tensors with placeholder nodes, prunes everything the fetches do
not need, and writes the resulting graph definition as JSON.`,
		RunE: runPrepare,
	}
)

func init() {
	prepareCmd.Flags().StringVar(&prepareGraphPath, "graph", "", "graph definition JSON file")
	prepareCmd.Flags().StringVar(&prepareConfigPath, "config", "", "compile config YAML file")
	prepareCmd.Flags().StringVar(&prepareOutPath, "out", "", "output file for the prepared graph (default stdout)")
	_ = prepareCmd.MarkFlagRequired("graph")
	_ = prepareCmd.MarkFlagRequired("config")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(prepareGraphPath)
	if err != nil {
		return err
	}
	f, err := os.Open(prepareConfigPath)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	cfg, err := aot.LoadConfig(f)
	if err != nil {
		return err
	}

	pruned, remap, err := aot.Prepare(cmd.Context(), g, cfg)
	if err != nil {
		return err
	}
	refs := make([]string, 0, len(remap))
	for ref := range remap {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		slog.Info("feed remapped", "ref", ref, "placeholder", remap[ref])
	}

	def, err := pruned.ToDef()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if prepareOutPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(prepareOutPath, data, 0o644)
}

func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	var def graph.GraphDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing graph: %w", err)
	}
	return graph.FromDef(&def, op.NewRegistry())
}
