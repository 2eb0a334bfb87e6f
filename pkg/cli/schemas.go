package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var schemasPath string

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List schemas defined in a schema file or directory",
	Long: `List the schemas a file or directory defines, with their targets and kind.

Examples:
  reqcheck schemas --schemas schemas.yaml
  reqcheck schemas --schemas ./schemas --json`,
	Args: cobra.NoArgs,
	RunE: runSchemas,
}

func init() {
	schemasCmd.Flags().StringVarP(&schemasPath, "schemas", "s", "", "Schema file or directory (required)")
	_ = schemasCmd.MarkFlagRequired("schemas")
	rootCmd.AddCommand(schemasCmd)
}

type schemaInfo struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

func runSchemas(cmd *cobra.Command, _ []string) error {
	set, err := loadSchemaSet(schemasPath)
	if err != nil {
		return err
	}

	infos := make([]schemaInfo, 0, len(set.Schemas))
	for name, def := range set.Schemas {
		kind := "rules"
		if def.IsJSONSchema() {
			kind = "jsonschema"
		}
		infos = append(infos, schemaInfo{
			Name:   name,
			Target: string(def.EffectiveTarget()),
			Kind:   kind,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(out, "%s\ttarget=%s\tkind=%s\n", info.Name, info.Target, info.Kind)
	}
	return nil
}
