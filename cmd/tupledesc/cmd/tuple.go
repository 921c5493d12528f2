package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tuannm99/tupledesc/internal/record"
)

var encodeCmd = &cobra.Command{
	Use:     "encode <table> <value>...",
	Short:   "Encode one tuple of table as hex",
	Example: `  tupledesc encode users 7 alice true`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := tableDesc(args[0])
		if err != nil {
			return err
		}
		t, err := parseTuple(desc, args[1:])
		if err != nil {
			return err
		}
		buf, err := record.EncodeTuple(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <table> <hex>",
	Short: "Decode a hex tuple of table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := tableDesc(args[0])
		if err != nil {
			return err
		}
		buf, err := hex.DecodeString(args[1])
		if err != nil {
			return err
		}
		t, err := record.DecodeTuple(desc, buf)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd, decodeCmd)
}

func tableDesc(name string) (*record.TupleDesc, error) {
	id, err := cat.TableID(name)
	if err != nil {
		return nil, err
	}
	return cat.TupleDesc(id)
}

// parseTuple converts command-line strings to values of desc's field types.
func parseTuple(desc *record.TupleDesc, args []string) (*record.Tuple, error) {
	if len(args) != desc.NumFields() {
		return nil, fmt.Errorf("%w: %d fields, %d values", record.ErrArityMismatch, desc.NumFields(), len(args))
	}
	t := record.NewTuple(desc)
	for i, f := range desc.All() {
		v, err := parseValue(f.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f, err)
		}
		if err := t.SetField(i, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseValue(t record.Type, s string) (any, error) {
	switch t.Kind() {
	case record.KindInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		return int32(n), err
	case record.KindInt64:
		return strconv.ParseInt(s, 10, 64)
	case record.KindBool:
		return strconv.ParseBool(s)
	case record.KindFloat64:
		return strconv.ParseFloat(s, 64)
	case record.KindString:
		return s, nil
	}
	return nil, record.ErrUnknownType
}
