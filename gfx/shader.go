// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gogpu/ciri/gfx/driver"
)

// Shader is a vertex, optional geometry and pixel program together with
// its vertex layout and constant buffer associations.
//
// Sources, input elements and constants are added first, then Build
// compiles and links. A built shader can be rebuilt after changing its
// sources.
type Shader struct {
	resource
	native driver.Shader

	vertex, geometry, pixel ShaderSource
	elements                []VertexElement
	constants               []constantBinding
	log                     string
}

// constantBinding associates a constant buffer with a named block.
type constantBinding struct {
	buf    *ConstantBuffer
	name   string
	stages ShaderStage
	slots  []stageSlot
}

type stageSlot struct {
	stage ShaderStage
	slot  int
}

// CreateShader returns an empty shader.
func (d *Device) CreateShader() (*Shader, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	s := &Shader{}
	d.track(s, kindShader)
	return s, nil
}

func (s *Shader) check() error {
	if s == nil || s.dev == nil || s.destroyed {
		return ErrDestroyed
	}
	return s.dev.ready()
}

func (s *Shader) setSource(dst *ShaderSource, src ShaderSource, stage ShaderStage) error {
	if err := s.check(); err != nil {
		return err
	}
	if src.IsZero() {
		return s.dev.fail(fmt.Errorf("%w: empty %s shader source", ErrInvalidArgument, stage))
	}
	*dst = src
	return nil
}

// AddVertexShader sets the vertex stage source.
func (s *Shader) AddVertexShader(src ShaderSource) error {
	return s.setSource(&s.vertex, src, StageVertex)
}

// AddGeometryShader sets the optional geometry stage source.
func (s *Shader) AddGeometryShader(src ShaderSource) error {
	return s.setSource(&s.geometry, src, StageGeometry)
}

// AddPixelShader sets the pixel stage source.
func (s *Shader) AddPixelShader(src ShaderSource) error {
	return s.setSource(&s.pixel, src, StagePixel)
}

// AddInputElement appends an element to the vertex layout.
func (s *Shader) AddInputElement(e VertexElement) error {
	if err := s.check(); err != nil {
		return err
	}
	if e.Components() == 0 {
		return s.dev.fail(fmt.Errorf("%w: vertex element format %v", ErrInvalidArgument, e.Format))
	}
	s.elements = append(s.elements, e)
	return nil
}

// AddConstants associates buf with the constant block called name at the
// given stages. The block is resolved when the shader is built, or
// immediately if it already is. ApplyShader binds every associated buffer.
func (s *Shader) AddConstants(buf *ConstantBuffer, name string, stages ShaderStage) error {
	if err := s.check(); err != nil {
		return err
	}
	switch {
	case buf == nil || !buf.live(s.dev):
		return s.dev.fail(fmt.Errorf("%w: constant buffer not usable", ErrInvalidArgument))
	case name == "":
		return s.dev.fail(fmt.Errorf("%w: empty constant block name", ErrInvalidArgument))
	case stages&StageAll == 0:
		return s.dev.fail(fmt.Errorf("%w: no shader stage for %q", ErrInvalidArgument, name))
	}
	cb := constantBinding{buf: buf, name: name, stages: stages & StageAll}
	if s.native != nil {
		if err := s.resolve(&cb); err != nil {
			return s.dev.fail(err)
		}
		if s.dev.bound.shader == s.handle && buf.native != nil {
			for _, ss := range cb.slots {
				s.dev.native.BindConstantBuffer(ss.stage, ss.slot, buf.native)
			}
		}
	}
	s.constants = append(s.constants, cb)
	return nil
}

// resolve looks up the block of cb at each of its stages.
func (s *Shader) resolve(cb *constantBinding) error {
	cb.slots = cb.slots[:0]
	for _, stage := range cb.stages.Stages() {
		if slot, ok := s.native.ConstantSlot(cb.name, stage); ok {
			cb.slots = append(cb.slots, stageSlot{stage: stage, slot: slot})
		}
	}
	if len(cb.slots) == 0 {
		return fmt.Errorf("%w: constant block %q not found in %s", ErrInvalidArgument, cb.name, cb.stages)
	}
	return nil
}

// Build compiles and links the shader. On failure the previous program,
// if any, is released and LastErrors holds the compiler log.
func (s *Shader) Build() error {
	if err := s.check(); err != nil {
		return err
	}
	d := s.dev
	switch {
	case s.vertex.IsZero():
		return d.fail(fmt.Errorf("%w: shader has no vertex stage", ErrInvalidArgument))
	case s.pixel.IsZero():
		return d.fail(fmt.Errorf("%w: shader has no pixel stage", ErrInvalidArgument))
	case len(s.elements) == 0:
		return d.fail(fmt.Errorf("%w: shader has no input elements", ErrInvalidArgument))
	}

	if d.bound.shader == s.handle {
		d.unbind(s.handle)
	}
	s.release()
	s.log = ""

	native, err := d.native.NewShader(driver.ShaderDesc{
		Vertex:   s.vertex,
		Geometry: s.geometry,
		Pixel:    s.pixel,
		Layout:   s.VertexLayout(),
	})
	if err != nil {
		var ce *driver.CompileError
		if errors.As(err, &ce) {
			s.log = ce.Log
		} else {
			s.log = err.Error()
		}
		return d.fail(fmt.Errorf("%w: build shader %s: %w", ErrBackend, s.vertex.Name, err))
	}
	s.native = native
	for i := range s.constants {
		if err := s.resolve(&s.constants[i]); err != nil {
			s.release()
			s.log = err.Error()
			return d.fail(err)
		}
	}
	return nil
}

// IsValid reports whether the shader is built and not destroyed.
func (s *Shader) IsValid() bool {
	return s != nil && !s.destroyed && s.native != nil
}

// LastErrors returns the compiler log of the last failed Build.
func (s *Shader) LastErrors() string { return s.log }

// VertexLayout returns the declared vertex layout.
func (s *Shader) VertexLayout() VertexLayout {
	return VertexLayout{Elements: append([]VertexElement(nil), s.elements...)}
}

// bindConstants binds every resolved constant buffer.
func (s *Shader) bindConstants() {
	for _, cb := range s.constants {
		if !cb.buf.live(s.dev) || cb.buf.native == nil {
			continue
		}
		for _, ss := range cb.slots {
			s.dev.native.BindConstantBuffer(ss.stage, ss.slot, cb.buf.native)
		}
	}
}

// uses reports whether buf is associated with s.
func (s *Shader) uses(buf *ConstantBuffer) bool {
	for _, cb := range s.constants {
		if cb.buf == buf {
			return true
		}
	}
	return false
}

// Destroy releases the shader. It is safe to call more than once.
func (s *Shader) Destroy() {
	if s == nil || s.dev == nil {
		return
	}
	s.dev.destroy(s)
}

func (s *Shader) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}

// ShaderFile reads a shader source from disk. The source is named after
// the file.
func ShaderFile(name string) (ShaderSource, error) {
	code, err := os.ReadFile(name)
	if err != nil {
		return ShaderSource{}, fmt.Errorf("gfx: shader source: %w", err)
	}
	return ShaderSource{Name: filepath.Base(name), Code: code}, nil
}

// ShaderFromFS reads a shader source from fsys.
func ShaderFromFS(fsys fs.FS, name string) (ShaderSource, error) {
	code, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ShaderSource{}, fmt.Errorf("gfx: shader source: %w", err)
	}
	return ShaderSource{Name: path.Base(name), Code: code}, nil
}

// LoadShader builds a shader from the files base+"_vs", base+"_gs" and
// base+"_ps" with the device shader extension, read from fsys. The
// geometry stage is optional.
func (d *Device) LoadShader(fsys fs.FS, base string, elements ...VertexElement) (*Shader, error) {
	s, err := d.CreateShader()
	if err != nil {
		return nil, err
	}
	ext := d.shaderExt
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	vs, err := ShaderFromFS(fsys, base+"_vs"+ext)
	if err != nil {
		s.Destroy()
		return nil, d.fail(err)
	}
	ps, err := ShaderFromFS(fsys, base+"_ps"+ext)
	if err != nil {
		s.Destroy()
		return nil, d.fail(err)
	}
	_ = s.AddVertexShader(vs)
	_ = s.AddPixelShader(ps)
	if gs, err := ShaderFromFS(fsys, base+"_gs"+ext); err == nil {
		_ = s.AddGeometryShader(gs)
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.Destroy()
		return nil, d.fail(err)
	}
	for _, e := range elements {
		if err := s.AddInputElement(e); err != nil {
			s.Destroy()
			return nil, err
		}
	}
	if err := s.Build(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}
