// Package sdfx bridges kernel meshes and the github.com/deadsy/sdfx CAD
// library: conversion to sdf triangles, STL output, and a signed distance
// view of a convex mesh.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Uploader = (*STLUploader)(nil)
	_ sdf.SDF3        = (*ConvexSolid)(nil)
)

// ToTriangles converts a mesh to sdf triangles. kernel meshes are wound
// clockwise seen from outside while sdfx expects counter-clockwise, so the
// last two corners of every triangle are swapped.
func ToTriangles(m *kernel.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		tris = append(tris, &sdf.Triangle3{t[0].Pos(), t[2].Pos(), t[1].Pos()})
	}
	return tris
}

// FromTriangles builds an unshared-vertex mesh from counter-clockwise sdf
// triangles, the inverse of ToTriangles.
func FromTriangles(name string, tris []*sdf.Triangle3) (*kernel.Mesh, error) {
	b := kernel.NewBuilder(name)
	for i, tri := range tris {
		n := tri.Normal()
		i0 := b.CurrentVertex()
		if err := b.AddTriangle(i0, i0+1, i0+2); err != nil {
			return nil, fmt.Errorf("sdfx: triangle %d: %w", i, err)
		}
		b.AddVertex(tri[0], n)
		b.AddVertex(tri[2], n)
		b.AddVertex(tri[1], n)
	}
	return b.Build(), nil
}

// SaveSTL writes the mesh to a binary STL file.
func SaveSTL(path string, m *kernel.Mesh) error {
	if err := render.SaveSTL(path, ToTriangles(m)); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

// STLUploader is an upload boundary that writes each uploaded buffer pair
// to an STL file instead of GPU memory.
type STLUploader struct {
	Path string
}

// Upload implements kernel.Uploader. The buffers carry no bounds, so they
// are recomputed before the mesh is validated.
func (u *STLUploader) Upload(vertices []kernel.VertexPositionNormal, indices []uint16) error {
	m := &kernel.Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   kernel.BoundsOf(vertices),
	}
	if errs := kernel.Validate(m); kernel.HasErrors(errs) {
		return fmt.Errorf("sdfx: refusing to write invalid mesh: %v", errs[0])
	}
	return SaveSTL(u.Path, m)
}

// plane is n·p = d with unit n.
type plane struct {
	n v3.Vec
	d float64
}

// ConvexSolid is the signed distance view of a convex kernel mesh: the
// maximum over its face planes of the distance to each plane. It is exact
// inside the solid and a lower bound outside.
type ConvexSolid struct {
	planes []plane
	bb     sdf.Box3
}

// NewConvexSolid builds the solid from a mesh's triangle planes.
// Coplanar triangles are collapsed into one plane.
func NewConvexSolid(m *kernel.Mesh) (*ConvexSolid, error) {
	if m.TriangleCount() == 0 {
		return nil, fmt.Errorf("sdfx: mesh %q has no triangles", m.PartName)
	}
	s := &ConvexSolid{bb: m.Bounds}
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		n := t[0].Norm().Normalize()
		p := plane{n: n, d: n.Dot(t[0].Pos())}
		if !s.hasPlane(p) {
			s.planes = append(s.planes, p)
		}
	}
	return s, nil
}

func (s *ConvexSolid) hasPlane(p plane) bool {
	const eps = 1e-5
	for _, q := range s.planes {
		if q.n.Sub(p.n).Length() < eps && math.Abs(q.d-p.d) < eps {
			return true
		}
	}
	return false
}

// PlaneCount returns the number of distinct face planes.
func (s *ConvexSolid) PlaneCount() int {
	return len(s.planes)
}

// Evaluate returns the signed distance from p to the solid surface,
// negative inside.
func (s *ConvexSolid) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, q := range s.planes {
		d = math.Max(d, q.n.Dot(p)-q.d)
	}
	return d
}

// BoundingBox returns the mesh bounds.
func (s *ConvexSolid) BoundingBox() sdf.Box3 {
	return s.bb
}

// Inradius returns the distance from the origin to the nearest face plane.
func (s *ConvexSolid) Inradius() float64 {
	return -s.Evaluate(v3.Vec{})
}
