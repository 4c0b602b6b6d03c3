package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/surfacemodel/gridmesh/gridspec"
	"github.com/surfacemodel/gridmesh/mesh"
	"github.com/surfacemodel/gridmesh/registry"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a grid from a YAML parameter file and summarize it",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		metrics, _ := cmd.Flags().GetBool("metrics")
		return runBuild(file, metrics)
	},
}

func init() {
	buildCmd.Flags().StringP("file", "f", "", "YAML grid description (required)")
	buildCmd.MarkFlagRequired("file")
	buildCmd.Flags().Bool("metrics", false, "print recorded usage counters after the summary")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(file string, metrics bool) error {
	config, err := loadConfig(file)
	if err != nil {
		return err
	}

	m, err := gridspec.Build(config)
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}

	var rec *registry.Recorder
	if metrics {
		rec = registry.New(prometheus.NewRegistry())
		defer rec.Close()
		rec.GridBuilt(string(m.Variant()))
		m.Fields().SetObserver(rec)
	}

	summarize(m)

	if metrics {
		for _, u := range rec.Usages() {
			fmt.Printf("%-40s %d\n", u.Key, u.Count)
		}
	}
	return nil
}

func loadConfig(file string) (map[string]interface{}, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	config := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return config, nil
}

func summarize(m *mesh.Mesh) {
	counts := logrus.Fields{}
	for _, group := range []string{
		mesh.GroupNode, mesh.GroupLink, mesh.GroupPatch,
		mesh.GroupCell, mesh.GroupCorner, mesh.GroupFace,
	} {
		n, err := m.ElementCount(group)
		if err != nil {
			continue
		}
		counts[group+"s"] = n
	}
	log.WithFields(counts).Infof("built %s grid", m.Variant())

	statuses := make(map[mesh.NodeStatus]int)
	for n := 0; n < m.NumberOfNodes(); n++ {
		statuses[m.StatusAtNode(n)]++
	}
	statusFields := logrus.Fields{}
	for s, n := range statuses {
		statusFields[s.String()] = n
	}
	log.WithFields(statusFields).Info("node statuses")

	log.WithFields(logrus.Fields{
		"active_links":    len(m.ActiveLinks()),
		"core_nodes":      len(m.CoreNodes()),
		"perimeter_nodes": len(m.Perimeter()),
		"total_cell_area": m.TotalCellArea(),
	}).Info("summary")
}
