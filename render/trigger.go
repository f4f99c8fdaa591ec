// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

// Trigger is the reason a render was requested.
type Trigger int32

const (
	// TriggerNone is a render without a specific reason.
	TriggerNone Trigger = iota

	// TriggerEdit is a render after the content was edited.
	TriggerEdit

	// TriggerResourceChange is a render after a resource changed.
	TriggerResourceChange

	// TriggerBuild is a render after the project was built.
	TriggerBuild

	// TriggerUser is a render explicitly requested by the user.
	TriggerUser

	// TriggerConfiguration is a render after the configuration changed.
	TriggerConfiguration
)

func (t Trigger) String() string {
	switch t {
	case TriggerEdit:
		return "edit"
	case TriggerResourceChange:
		return "resource-change"
	case TriggerBuild:
		return "build"
	case TriggerUser:
		return "user"
	case TriggerConfiguration:
		return "configuration"
	}
	return "none"
}
