package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/tupledesc/internal/catalog"
	"github.com/tuannm99/tupledesc/internal/record"
)

var (
	addPKey        string
	describeFormat string
	mergeAs        string
)

var addCmd = &cobra.Command{
	Use:   "add <table> <TYPE[:name]>...",
	Short: "Add or replace a table schema",
	Example: `  tupledesc add users INT64:id STRING(32):name BOOL:active --pkey id
  tupledesc add pairs INT STRING20`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := parseFieldSpecs(args[1:])
		if err != nil {
			return err
		}
		id, err := cat.AddTable(args[0], desc, addPKey)
		if err != nil {
			return err
		}
		if err := saveCatalog(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], id)
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [table]...",
	Short: "Show table schemas (all tables when none given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		metas, err := selectTables(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch describeFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(metas)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(metas)
		case "text":
			for _, m := range metas {
				printTable(cmd, m)
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q", describeFormat)
		}
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <left> <right>",
	Short: "Show the schema of left's fields followed by right's",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metas, err := selectTables(args)
		if err != nil {
			return err
		}
		merged := record.Merge(metas[0].Desc, metas[1].Desc)

		if mergeAs == "" {
			printTable(cmd, catalog.TableMeta{Name: args[0] + "+" + args[1], Desc: merged})
			return nil
		}
		id, err := cat.AddTable(mergeAs, merged, "")
		if err != nil {
			return err
		}
		if err := saveCatalog(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mergeAs, id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addPKey, "pkey", "", "primary key field name")
	describeCmd.Flags().StringVarP(&describeFormat, "output", "o", "text", "text | json | yaml")
	mergeCmd.Flags().StringVar(&mergeAs, "as", "", "store the merged schema as a new table")

	rootCmd.AddCommand(addCmd, describeCmd, mergeCmd)
}

// parseFieldSpecs turns ["INT32:id", "STRING(20)"] into a descriptor.
// A spec without ":" is an anonymous field.
func parseFieldSpecs(specs []string) (*record.TupleDesc, error) {
	types := make([]record.Type, len(specs))
	names := make([]record.Name, len(specs))
	for i, s := range specs {
		ts, name, named := strings.Cut(s, ":")
		t, err := record.ParseType(ts)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		types[i] = t
		if named {
			names[i] = record.Named(name)
		}
	}
	return record.New(types, names)
}

func selectTables(names []string) ([]catalog.TableMeta, error) {
	if len(names) == 0 {
		return cat.Tables(), nil
	}
	out := make([]catalog.TableMeta, 0, len(names))
	for _, n := range names {
		id, err := cat.TableID(n)
		if err != nil {
			return nil, err
		}
		desc, err := cat.TupleDesc(id)
		if err != nil {
			return nil, err
		}
		pk, err := cat.PrimaryKey(id)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.TableMeta{ID: id, Name: n, Desc: desc, PrimaryKey: pk})
	}
	return out, nil
}

func printTable(cmd *cobra.Command, m catalog.TableMeta) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  fields=%d  size=%d  hash=%016x\n", m.Name, m.Desc.NumFields(), m.Desc.Size(), m.Desc.Hash())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tNAME\tTYPE\tOFFSET\tSIZE\t")
	for i, f := range m.Desc.All() {
		off, _ := m.Desc.Offset(i)
		mark := ""
		if m.PrimaryKey != "" && f.Name.Valid && f.Name.Value == m.PrimaryKey {
			mark = " *"
		}
		fmt.Fprintf(tw, "  %d\t%s%s\t%s\t%d\t%d\t\n", i, f.Name, mark, f.Type, off, f.Type.Size())
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
