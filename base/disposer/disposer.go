// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disposer provides an ownership tree for the teardown of
// resources. Each [Node] owns its children, and disposing a node
// disposes all of its children first, in reverse registration order.
// Disposal is idempotent.
package disposer

import (
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/preview/base/errors"
)

// Disposable is implemented by anything that can be disposed.
type Disposable interface {
	Dispose()
}

// Node is a node in the ownership tree.
type Node struct {
	// Name is used for logging.
	Name string

	mu       sync.Mutex
	fun      func()
	parent   *Node
	children []*Node
	disposed bool
}

// New returns a new root node with the given name and optional
// function, which is called when the node is disposed.
func New(name string, fun func()) *Node {
	return &Node{Name: name, fun: fun}
}

// For returns a new node that disposes the given [Disposable].
func For(name string, d Disposable) *Node {
	return New(name, d.Dispose)
}

// Register adds the given child to the node, so that it is disposed
// when the node is. If the node is already disposed, the child is
// disposed immediately. A child can only have one parent; registering
// it again moves it.
func (n *Node) Register(child *Node) {
	if child == nil || child == n {
		return
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		child.Dispose()
		return
	}
	n.mu.Unlock()

	child.detach()

	n.mu.Lock()
	defer n.mu.Unlock()
	child.mu.Lock()
	child.parent = n
	child.mu.Unlock()
	n.children = append(n.children, child)
}

// NewChild creates a new node with the given name and function,
// registers it as a child of this node and returns it.
func (n *Node) NewChild(name string, fun func()) *Node {
	c := New(name, fun)
	n.Register(c)
	return c
}

// detach removes the node from its parent, if any.
func (n *Node) detach() {
	n.mu.Lock()
	p := n.parent
	n.parent = nil
	n.mu.Unlock()
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

// Dispose disposes all children of the node, in reverse registration
// order, then calls the function of the node and removes it from its
// parent. It does nothing if the node is already disposed. A panic
// in a dispose function is recovered and logged so that the rest of
// the tree is still torn down.
func (n *Node) Dispose() {
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	children := n.children
	n.children = nil
	fun := n.fun
	n.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	if fun != nil {
		n.call(fun)
	}
	n.detach()
}

func (n *Node) call(fun func()) {
	defer func() {
		if err := errors.Recovered(recover()); err != nil {
			slog.Error("disposer: panic while disposing", "node", n.Name, "err", err)
		}
	}()
	fun()
}

// IsDisposed returns whether the node has been disposed.
func (n *Node) IsDisposed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disposed
}

// NumChildren returns the number of live children of the node.
func (n *Node) NumChildren() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children)
}
