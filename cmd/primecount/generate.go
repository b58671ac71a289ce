package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/primecount/service/input"
)

const (
	flagCount  = "count"
	flagMax    = "max"
	flagOutput = "output"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write pseudo random integers for benchmarking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count := v.GetInt(flagCount)
			if count < 0 {
				return fmt.Errorf("invalid %v: %d", flagCount, count)
			}
			bound := v.GetUint32(flagMax)
			output := v.GetString(flagOutput)
			if output == "" || output == input.Stdin {
				return input.Generate(cmd.OutOrStdout(), count, bound)
			}
			buf := &bytes.Buffer{}
			if err := input.Generate(buf, count, bound); err != nil {
				return err
			}
			return upload(cmd, output, buf)
		},
	}
	flags := cmd.Flags()
	flags.IntP(flagCount, "n", 1000, "number of integers")
	flags.Uint32(flagMax, 0, "exclusive upper bound, 0 for the full uint32 range")
	flags.StringP(flagOutput, "o", "", "output URL, standard output by default")
	_ = v.BindPFlags(flags)
	return cmd
}

func upload(cmd *cobra.Command, URL string, data io.Reader) error {
	fs := afs.New()
	if err := fs.Upload(cmd.Context(), URL, file.DefaultFileOsMode, data); err != nil {
		return fmt.Errorf("failed to upload %v: %w", URL, err)
	}
	return nil
}
