package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shapego"
	"github.com/hupe1980/shapego/codec"
	"github.com/hupe1980/shapego/container"
)

type representerSummary struct {
	Name        string `json:"name"`
	DatasetType string `json:"datasetType"`
	Alignment   string `json:"alignment"`
	Points      int    `json:"points"`
	Cells       int    `json:"cells"`
	Dimensions  int    `json:"dimensions"`
}

type inspectReport struct {
	Representer representerSummary    `json:"representer"`
	Container   container.Description `json:"container"`
}

func newInspectCmd(a *app) *cobra.Command {
	codecName := "go-json"
	cmd := &cobra.Command{
		Use:   "inspect <file.ssm>",
		Short: "Print a JSON description of a model container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q, want one of %v", codecName, codec.Names())
			}
			root, err := loadContainer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rep, err := shapego.LoadModelContainer(root, shapego.WithLogger(a.logger))
			if err != nil {
				return err
			}
			ref := rep.Reference()
			report := inspectReport{
				Representer: representerSummary{
					Name:        rep.Name(),
					DatasetType: rep.DatasetType(),
					Alignment:   rep.Alignment().String(),
					Points:      rep.NumberOfPoints(),
					Cells:       ref.NumberOfCells(),
					Dimensions:  rep.Dimensions(),
				},
				Container: container.Describe(root),
			}
			out, err := codec.MarshalPretty(c, report)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&codecName, "codec", codecName, "JSON codec: json or go-json")
	return cmd
}
