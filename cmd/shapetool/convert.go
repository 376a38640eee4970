package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shapego"
	"github.com/hupe1980/shapego/geometry"
)

func newVectorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vectorize <file.ssm> <dataset.vtk>",
		Short: "Print the sample vector of a dataset, one value per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := loadModel(cmd.Context(), args[0], shapego.WithLogger(a.logger))
			if err != nil {
				return err
			}
			ds, err := geometry.ReadVTKFile(args[1])
			if err != nil {
				return err
			}
			v, err := rep.DatasetToSampleVector(ds)
			if err != nil {
				return err
			}
			return writeVector(cmd.OutOrStdout(), v)
		},
	}
}

func newReconstructCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconstruct <file.ssm> <vector.txt> <out.vtk>",
		Short: "Write the dataset described by a sample vector",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := loadModel(cmd.Context(), args[0], shapego.WithLogger(a.logger))
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			v, err := readVector(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			ds, err := rep.SampleVectorToSample(v)
			if err != nil {
				return err
			}
			return geometry.WriteVTKFile(args[2], ds)
		},
	}
}

func writeVector(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	for _, x := range v {
		bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// readVector parses whitespace-separated numbers.
func readVector(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var v []float64
	for sc.Scan() {
		x, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(v), err)
		}
		v = append(v, x)
	}
	return v, sc.Err()
}
