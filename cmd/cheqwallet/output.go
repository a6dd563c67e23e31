package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func printOutput(cmd *cobra.Command, v interface{}) error {
	format, _ := cmd.Flags().GetString(outputFlag)
	var (
		bz  []byte
		err error
	)
	switch format {
	case "json":
		bz, err = json.MarshalIndent(v, "", "  ")
	default:
		bz, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
