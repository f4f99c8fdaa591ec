// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model provides the model of a markup file that is being
// previewed: the markup document, its render configuration and the
// tree of components that mirrors the markup tags and carries the
// geometry of the rendered views.
package model

import (
	"sync"
	"sync/atomic"

	"cogentcore.org/preview/base/plan"
	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/events"
	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/render"
)

// Listener is notified of changes to a model.
type Listener interface {

	// ModelChanged is called when the content of the model changed.
	ModelChanged(m *Model)

	// ModelDerivedDataChanged is called when data derived from the
	// content, such as the inflated view tree, changed.
	ModelDerivedDataChanged(m *Model)

	// ModelChangedOnLayout is called when the layout of the model
	// changed without its content changing.
	ModelChangedOnLayout(m *Model, animate bool)

	// ModelLiveUpdate is called for a live edit that needs a new
	// layout and render but no new session.
	ModelLiveUpdate(m *Model, animate bool)
}

// Model is the model of one markup file. It is safe for concurrent use.
type Model struct {
	doc    *markup.Document
	config *configuration.Configuration

	// mu guards the component tree structure.
	mu    sync.RWMutex
	root  *Component
	byTag map[*markup.Tag]*Component

	lastChange atomic.Int32
	modCount   atomic.Uint64
	listeners  events.Listeners[Listener]
}

// New returns a new model for the given document and configuration.
// A nil configuration is replaced by [configuration.Default].
func New(doc *markup.Document, config *configuration.Configuration) *Model {
	if config == nil {
		config = configuration.Default()
	}
	m := &Model{doc: doc, config: config}
	m.syncComponents()
	return m
}

// Open opens the given markup file as a new model.
func Open(filename string, config *configuration.Configuration) (*Model, error) {
	doc, err := markup.OpenDocument(filename)
	if err != nil {
		return nil, err
	}
	return New(doc, config), nil
}

// File returns the file of the model.
func (m *Model) File() string {
	return m.doc.File()
}

// Document returns the markup document of the model.
func (m *Model) Document() *markup.Document {
	return m.doc
}

// Configuration returns the render configuration of the model.
func (m *Model) Configuration() *configuration.Configuration {
	return m.config
}

// Source returns the render source for the current content
// and configuration of the model.
func (m *Model) Source() render.Source {
	return render.Source{File: m.File(), Markup: m.doc.Snapshot(), Config: m.config.State()}
}

// LastChange returns the type of the last change.
func (m *Model) LastChange() ChangeType {
	return ChangeType(m.lastChange.Load())
}

// ModificationCount returns the number of changes notified
// through [Model.NotifyModified].
func (m *Model) ModificationCount() uint64 {
	return m.modCount.Load()
}

// Root returns the root component, which is nil for an empty document.
func (m *Model) Root() *Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// Components returns all of the components in depth-first order.
func (m *Model) Components() []*Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cs []*Component
	if m.root != nil {
		flatten(m.root, &cs)
	}
	return cs
}

func flatten(c *Component, cs *[]*Component) {
	*cs = append(*cs, c)
	for _, k := range c.children {
		flatten(k, cs)
	}
}

// ComponentForTag returns the component of the given tag, if any.
func (m *Model) ComponentForTag(tag *markup.Tag) *Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byTag[tag]
}

// ComponentByID returns the first component with the given id, if any.
func (m *Model) ComponentByID(id string) *Component {
	for _, c := range m.Components() {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// AddListener adds a listener to the model and returns
// a function that removes it.
func (m *Model) AddListener(l Listener) (remove func()) {
	return m.listeners.Add(l)
}

// syncComponents brings the component tree in line with the tag tree
// of the document. Components keep their identity for as long as
// their tag survives.
func (m *Model) syncComponents() {
	m.doc.Read(func(root *markup.Tag) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if root == nil {
			m.root = nil
			m.byTag = map[*markup.Tag]*Component{}
			return
		}
		if m.root == nil || m.root.tag != root {
			m.root = newComponent(m, root, nil)
		}
		m.syncChildren(m.root)
		m.byTag = map[*markup.Tag]*Component{}
		var cs []*Component
		flatten(m.root, &cs)
		for _, c := range cs {
			m.byTag[c.tag] = c
		}
	})
}

func (m *Model) syncChildren(c *Component) {
	tags := c.tag.Children
	c.children, _ = plan.Update(c.children, len(tags),
		func(i int) string { return tags[i].PlanName() },
		func(name string, i int) *Component { return newComponent(m, tags[i], c) },
		func(e *Component) { e.parent = nil })
	for i, k := range c.children {
		if k.tag != tags[i] {
			k = newComponent(m, tags[i], c)
			c.children[i] = k
		}
		m.syncChildren(k)
	}
}

// SyncWithMarkup updates the component tree from the markup and attaches
// the markup snapshots carried as cookies by the given view infos to the
// components of their tags.
func (m *Model) SyncWithMarkup(rootViews []*render.ViewInfo) {
	m.syncComponents()
	render.WalkViews(rootViews, func(v *render.ViewInfo, px, py int) bool {
		if s, ok := v.Cookie.(*markup.Snapshot); ok && s != nil {
			if c := m.ComponentForTag(s.Tag); c != nil {
				c.setSnapshot(s)
			}
		}
		return true
	})
}

// Reload merges the given freshly parsed markup into the document of
// the model and notifies the listeners of an edit.
func (m *Model) Reload(root *markup.Tag) {
	m.doc.Update(root)
	m.syncComponents()
	m.NotifyModified(ChangeEdit)
}

// NotifyModified records a change of the given type
// and notifies the listeners that the model changed.
func (m *Model) NotifyModified(ct ChangeType) {
	m.lastChange.Store(int32(ct))
	m.modCount.Add(1)
	m.listeners.Each(func(l Listener) { l.ModelChanged(m) })
}

// NotifyDerivedDataChanged notifies the listeners
// that data derived from the model changed.
func (m *Model) NotifyDerivedDataChanged() {
	m.listeners.Each(func(l Listener) { l.ModelDerivedDataChanged(m) })
}

// NotifyChangedOnLayout notifies the listeners that the layout changed.
func (m *Model) NotifyChangedOnLayout(animate bool) {
	m.listeners.Each(func(l Listener) { l.ModelChangedOnLayout(m, animate) })
}

// NotifyLiveUpdate notifies the listeners of a live update.
func (m *Model) NotifyLiveUpdate(animate bool) {
	m.listeners.Each(func(l Listener) { l.ModelLiveUpdate(m, animate) })
}

// Funcs is a [Listener] made of optional functions.
type Funcs struct {
	Changed            func(m *Model)
	DerivedDataChanged func(m *Model)
	ChangedOnLayout    func(m *Model, animate bool)
	LiveUpdate         func(m *Model, animate bool)
}

func (f *Funcs) ModelChanged(m *Model) {
	if f.Changed != nil {
		f.Changed(m)
	}
}

func (f *Funcs) ModelDerivedDataChanged(m *Model) {
	if f.DerivedDataChanged != nil {
		f.DerivedDataChanged(m)
	}
}

func (f *Funcs) ModelChangedOnLayout(m *Model, animate bool) {
	if f.ChangedOnLayout != nil {
		f.ChangedOnLayout(m, animate)
	}
}

func (f *Funcs) ModelLiveUpdate(m *Model, animate bool) {
	if f.LiveUpdate != nil {
		f.LiveUpdate(m, animate)
	}
}
