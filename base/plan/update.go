// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan reconciles a slice of named elements with a target list
// of names, keeping the elements whose names are still wanted. Model and
// scene components use it to keep their identity across re-inflation.
package plan

// Namer is implemented by elements that have a name in a plan.
type Namer interface {

	// PlanName returns the name of the element in a plan.
	PlanName() string
}

// Update returns a slice with one element for each of the n target names
// given by name, in order. An element of s is reused for the first target
// with its name; elements with repeated names are matched in order. New
// elements are made by new, and destroy, if non-nil, is called on every
// element of s that is not reused. It also returns whether the result
// differs from s.
func Update[T interface {
	comparable
	Namer
}](s []T, n int, name func(i int) string, new func(name string, i int) T, destroy func(e T)) ([]T, bool) {
	byName := make(map[string][]T, len(s))
	for _, e := range s {
		nm := e.PlanName()
		byName[nm] = append(byName[nm], e)
	}
	r := make([]T, n)
	mods := n != len(s)
	for i := range n {
		nm := name(i)
		if es := byName[nm]; len(es) > 0 {
			r[i] = es[0]
			byName[nm] = es[1:]
		} else {
			r[i] = new(nm, i)
		}
		if !mods && r[i] != s[i] {
			mods = true
		}
	}
	// destroy in the original order of s
	for _, e := range s {
		es := byName[e.PlanName()]
		if len(es) == 0 || es[0] != e {
			continue
		}
		byName[e.PlanName()] = es[1:]
		mods = true
		if destroy != nil {
			destroy(e)
		}
	}
	return r, mods
}
