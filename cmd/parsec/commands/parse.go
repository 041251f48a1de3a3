package commands

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"
	"go.trai.ch/parsec/internal/adapters/telemetry/progrock"
	"go.trai.ch/parsec/internal/core/domain"
)

// nodeOutput is the JSON shape of one resolved target node.
type nodeOutput struct {
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Deps       []string       `json:"deps,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (c *CLI) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [targets...]",
		Short: "Parse build files and resolve the given targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			if progress, _ := cmd.Flags().GetBool("progress"); progress {
				recorder := progrock.New()
				defer func() { _ = recorder.Close() }()
				c.components.App.WithTracer(recorder)
			}

			nodes, err := c.components.App.Parse(cmd.Context(), ".", args)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeNodesJSON(cmd, nodes)
			}
			for _, node := range nodes {
				cmd.Println(node.Target.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Print resolved nodes as JSON")
	cmd.Flags().BoolP("progress", "p", false, "Render live parse progress")
	return cmd
}

func writeNodesJSON(cmd *cobra.Command, nodes []*domain.TargetNode) error {
	out := make([]nodeOutput, 0, len(nodes))
	for _, node := range nodes {
		deps := make([]string, 0, len(node.ParseDeps))
		for _, dep := range node.ParseDeps {
			deps = append(deps, dep.String())
		}
		sort.Strings(deps)
		out = append(out, nodeOutput{
			Target:     node.Target.String(),
			Type:       node.RuleType.String(),
			Deps:       deps,
			Attributes: node.Attributes,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
