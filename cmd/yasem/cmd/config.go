package cmd

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmylchreest/yasem/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the default configuration",
	Long: `Dump the default configuration values in YAML format.

Redirect the output to a file to create a configuration template:

  yasem config dump > config.yaml

Environment variables use the YASEM_ prefix and underscores for nesting.
Example: server.port -> YASEM_SERVER_PORT`,
	RunE: runConfigDump,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
	configCmd.AddCommand(configCheckCmd)
}

// toMap converts a config struct to a map keyed by mapstructure tags, with
// durations in their human form.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.Indirect(reflect.ValueOf(v))
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		key := typ.Field(i).Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(typ.Field(i).Name)
		}

		switch fv := field.Interface().(type) {
		case time.Duration:
			result[key] = fv.String()
		default:
			switch field.Kind() {
			case reflect.Struct:
				result[key] = toMap(fv)
			case reflect.Slice:
				if field.Type().Elem().Kind() == reflect.Struct {
					items := make([]map[string]any, 0, field.Len())
					for j := range field.Len() {
						items = append(items, toMap(field.Index(j).Interface()))
					}
					result[key] = items
				} else {
					result[key] = fv
				}
			default:
				result[key] = fv
			}
		}
	}
	return result
}

func runConfigDump(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	yamlData, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# yasem configuration")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out, "# Duration format: 30s, 5m, 1h")
	fmt.Fprintln(out, "# Profiles listed under profiles: are upserted at startup, e.g.")
	fmt.Fprintln(out, "#   profiles:")
	fmt.Fprintln(out, "#     - id: living-room")
	fmt.Fprintln(out, "#       class_id: mag")
	fmt.Fprintln(out, "#       submodel: MAG254")
	fmt.Fprintln(out, "#       portal: http://portal.example/c/")
	fmt.Fprintln(out, "#       config:")
	fmt.Fprintln(out, "#         mag/mac_address: 00:1A:79:12:34:56")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(yamlData))

	return nil
}
