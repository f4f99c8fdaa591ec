// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "cogentcore.org/preview/render"

// ChangeType is the kind of the last change made to a model.
type ChangeType int32

const (
	ChangeUnknown ChangeType = iota
	ChangeEdit
	ChangeResourceEdit
	ChangeResourceChanged
	ChangeAddComponents
	ChangeDelete
	ChangeDNDCommit
	ChangeDNDEnd
	ChangeDrop
	ChangeResizeEnd
	ChangeResizeCommit
	ChangeBuild
	ChangeConfiguration
)

var changeTypeNames = [...]string{
	"unknown", "edit", "resource-edit", "resource-changed", "add-components",
	"delete", "dnd-commit", "dnd-end", "drop", "resize-end", "resize-commit",
	"build", "configuration",
}

func (ct ChangeType) String() string {
	if ct < 0 || int(ct) >= len(changeTypeNames) {
		return "unknown"
	}
	return changeTypeNames[ct]
}

// TriggerFor returns the render trigger that reports a render
// caused by a change of the given type.
func TriggerFor(ct ChangeType) render.Trigger {
	switch ct {
	case ChangeResourceEdit, ChangeResourceChanged:
		return render.TriggerResourceChange
	case ChangeEdit, ChangeAddComponents, ChangeDelete, ChangeDNDCommit,
		ChangeDNDEnd, ChangeDrop, ChangeResizeEnd, ChangeResizeCommit:
		return render.TriggerEdit
	case ChangeBuild:
		return render.TriggerBuild
	}
	return render.TriggerNone
}
