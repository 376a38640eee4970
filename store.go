package shapego

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/shapego/blobstore"
	"github.com/hupe1980/shapego/container"
)

// RepresenterGroup is the group of a model container holding the representer.
const RepresenterGroup = "representer"

// Load reconstructs a representer from g, choosing the kind from its
// datasetType node. Containers without a datasetType but with an embedded
// reference file load as PolyDataRepresenter.
func Load(g *container.Group, opts ...Option) (Representer, error) {
	typ, err := g.ReadString("datasetType")
	switch {
	case err == nil && typ == DatasetTypeMesh:
		return LoadMeshRepresenter(g, opts...)
	case err == nil && typ == DatasetTypePolyData:
		return LoadPolyDataRepresenter(g, opts...)
	case err == nil:
		return nil, modelError("load representer", fmt.Errorf("%w: %q", ErrWrongDatasetType, typ))
	case errors.Is(err, container.ErrNotFound) && g.Exists("reference"):
		return LoadPolyDataRepresenter(g, opts...)
	default:
		return nil, modelError("load representer", err)
	}
}

// NewModelContainer returns a root container with rep saved under
// RepresenterGroup.
func NewModelContainer(rep Representer) (*container.Group, error) {
	root := container.NewRoot()
	g, err := root.CreateGroup(RepresenterGroup)
	if err != nil {
		return nil, modelError("save representer", err)
	}
	if err := rep.Save(g); err != nil {
		return nil, err
	}
	return root, nil
}

// LoadModelContainer loads the representer stored under RepresenterGroup.
func LoadModelContainer(root *container.Group, opts ...Option) (Representer, error) {
	g, err := root.OpenGroup(RepresenterGroup)
	if err != nil {
		return nil, modelError("load representer", err)
	}
	return Load(g, opts...)
}

// SaveFile writes rep to a container file at path.
func SaveFile(path string, rep Representer, opts ...container.Option) error {
	root, err := NewModelContainer(rep)
	if err != nil {
		return err
	}
	if err := container.SaveToFile(path, root, opts...); err != nil {
		return modelError("save file", err)
	}
	return nil
}

// LoadFile reads a representer from the container file at path.
func LoadFile(path string, opts ...Option) (Representer, error) {
	o := applyOptions(opts)
	root, err := container.LoadFromFile(path, container.WithFileSystem(o.fsys))
	if err != nil {
		o.logger.LogLoad(context.Background(), path, err)
		return nil, modelError("load file", err)
	}
	return LoadModelContainer(root, opts...)
}

// SaveToStore writes rep as a container blob named name.
func SaveToStore(ctx context.Context, store blobstore.BlobStore, name string, rep Representer, opts ...container.Option) error {
	root, err := NewModelContainer(rep)
	if err != nil {
		return err
	}
	if err := container.Put(ctx, store, name, root, opts...); err != nil {
		return modelError("save to store", err)
	}
	return nil
}

// LoadFromStore reads a representer from the container blob named name.
func LoadFromStore(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (Representer, error) {
	root, err := container.Get(ctx, store, name)
	if err != nil {
		o := applyOptions(opts)
		o.logger.LogLoad(ctx, name, err)
		return nil, modelError("load from store", err)
	}
	return LoadModelContainer(root, opts...)
}
