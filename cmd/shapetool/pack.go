package main

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shapego"
	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/geometry"
)

type packOptions struct {
	kind        string
	alignment   string
	compression string
	landmarks   []uint
	tempDir     string
}

func newPackCmd(a *app) *cobra.Command {
	o := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack <reference.vtk> <out.ssm|s3://bucket/key|minio://bucket/key>",
		Short: "Build a representer from a VTK reference and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd.Context(), a, o, args[0], args[1])
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.kind, "kind", "mesh", "representer kind: mesh or polydata")
	f.StringVar(&o.alignment, "alignment", "none", "alignment: none, rigid, similarity or affine")
	f.StringVar(&o.compression, "compression", "zstd", "container compression: none, lz4 or zstd")
	f.UintSliceVar(&o.landmarks, "landmarks", nil, "reference point ids used for alignment")
	f.StringVar(&o.tempDir, "temp-dir", "", "directory for scratch files")
	return cmd
}

func runPack(ctx context.Context, a *app, o *packOptions, in, out string) error {
	mode, err := shapego.ParseAlignmentMode(o.alignment)
	if err != nil {
		return err
	}
	ct, err := container.ParseCompression(o.compression)
	if err != nil {
		return err
	}
	ref, err := geometry.ReadVTKFile(in)
	if err != nil {
		return err
	}

	opts := []shapego.Option{
		shapego.WithAlignment(mode),
		shapego.WithTempDir(o.tempDir),
		shapego.WithLogger(a.logger),
	}
	if len(o.landmarks) > 0 {
		ids := make([]uint32, len(o.landmarks))
		for i, id := range o.landmarks {
			if id > math.MaxUint32 {
				return fmt.Errorf("landmark id %d out of range", id)
			}
			ids[i] = uint32(id)
		}
		opts = append(opts, shapego.WithLandmarks(ids...))
	}

	var rep shapego.Representer
	switch o.kind {
	case "mesh":
		rep, err = shapego.NewMeshRepresenter(ref, opts...)
	case "polydata":
		rep, err = shapego.NewPolyDataRepresenter(ref, opts...)
	default:
		return fmt.Errorf("unknown representer kind %q", o.kind)
	}
	if err != nil {
		return err
	}
	return saveModel(ctx, out, rep, container.WithCompression(ct))
}
