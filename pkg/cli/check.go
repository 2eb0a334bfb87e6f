package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextyfine-dev/reqcheck/pkg/config"
	"github.com/nextyfine-dev/reqcheck/pkg/middleware"
	"github.com/nextyfine-dev/reqcheck/pkg/validation"
)

var (
	checkSchemas string
	checkName    string
)

// sectionOrder mirrors the middleware's fixed Multi Schema check order.
var sectionOrder = []middleware.Target{
	middleware.TargetBody,
	middleware.TargetParams,
	middleware.TargetQuery,
	middleware.TargetHeaders,
}

var checkCmd = &cobra.Command{
	Use:   "check <data.json>",
	Short: "Validate a JSON document against a named schema",
	Long: `Validate a JSON document against a schema from a schema file or directory.

For schemas with target "multiple", the document's top-level keys are
treated as request sections (body, params, query, headers) and each is
checked against its sub-schema, stopping at the first failure.

Examples:
  # Validate a payload against the createUser schema
  reqcheck check payload.json --schemas schemas.yaml --name createUser

  # Load schemas from a directory (globs **/*.yaml, **/*.yml, **/*.json)
  reqcheck check payload.json --schemas ./schemas --name createUser --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkSchemas, "schemas", "s", "", "Schema file or directory (required)")
	checkCmd.Flags().StringVarP(&checkName, "name", "n", "", "Schema name within the set (required)")
	_ = checkCmd.MarkFlagRequired("schemas")
	_ = checkCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	set, err := loadSchemaSet(checkSchemas)
	if err != nil {
		return err
	}
	def, err := set.Get(checkName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("document is not a JSON object: %w", err)
	}

	opts := &validation.Options{}
	if def.IsJSONSchema() {
		opts.NewEngine = validation.NewSchemaEngine
	}
	engine, err := validation.New(opts)
	if err != nil {
		return err
	}

	logger.Debug("checking document", "schema", checkName, "target", def.EffectiveTarget())

	fieldErrs, err := checkDocument(cmd, engine, def, doc)
	if err != nil {
		return err
	}
	return report(cmd, fieldErrs)
}

// checkDocument validates doc the way the middleware would validate a
// request: whole-document for section targets, section by section in
// fixed order for target multiple.
func checkDocument(cmd *cobra.Command, engine validation.Engine, def *config.SchemaDef, doc map[string]any) ([]*validation.FieldError, error) {
	schema := def.SchemaValue()
	target := def.EffectiveTarget()

	if target != middleware.TargetMultiple || !middleware.IsMulti(schema) {
		return engine.Validate(cmd.Context(), doc, schema)
	}

	sections := schema.(map[string]any)
	for _, t := range sectionOrder {
		sub, ok := sections[string(t)]
		if !ok {
			continue
		}
		value, _ := doc[string(t)].(map[string]any)
		fieldErrs, err := engine.Validate(cmd.Context(), value, sub)
		if err != nil {
			return nil, err
		}
		if len(fieldErrs) > 0 {
			for _, e := range fieldErrs {
				if e.Location == "" {
					e.Location = string(t)
				}
			}
			return fieldErrs, nil
		}
	}
	return nil, nil
}

func report(cmd *cobra.Command, fieldErrs []*validation.FieldError) error {
	out := cmd.OutOrStdout()

	if len(fieldErrs) == 0 {
		if jsonOutput {
			fmt.Fprintln(out, `{"valid":true}`)
		} else {
			fmt.Fprintln(out, "OK")
		}
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(validation.NewErrorResponse(fieldErrs)); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%d validation error(s):\n", len(fieldErrs))
		for _, e := range fieldErrs {
			fmt.Fprintf(out, "  - %s\n", e.Error())
		}
	}
	return fmt.Errorf("validation failed")
}

// loadSchemaSet loads from a file or, when path is a directory, merges
// every matching schema file under it.
func loadSchemaSet(path string) (*config.SchemaSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if info.IsDir() {
		return config.LoadDir(path)
	}
	return config.LoadFromFile(path)
}
