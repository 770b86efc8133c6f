// Package domain provides the spatial domain handle passed to imported
// functions and the helpers that sample configuration values at probe points.
//
// The finite-element mesh itself is owned by an external engine. A Mesh only
// records where the mesh file lives and the spatial dimension it describes.
package domain

import (
	"fmt"

	"github.com/vk/pdeconf/internal/fsutil"
)

// DefaultDim is used when the configuration does not state a dimension.
const DefaultDim = 2

// Mesh is the opaque domain handle.
type Mesh struct {
	File string
	Dim  int
}

// Dimension returns the number of spatial axes of the mesh.
func (m *Mesh) Dimension() int { return m.Dim }

func (m *Mesh) String() string { return fmt.Sprintf("mesh(%s, %dd)", m.File, m.Dim) }

// Load resolves the mesh file relative to runDir and validates the dimension.
// A zero dim selects DefaultDim.
func Load(file, runDir string, dim int) (*Mesh, error) {
	if dim == 0 {
		dim = DefaultDim
	}
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("mesh dimension must be 1, 2 or 3, got %d", dim)
	}
	path, err := fsutil.FindRelPath(file, runDir)
	if err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}
	return &Mesh{File: path, Dim: dim}, nil
}
