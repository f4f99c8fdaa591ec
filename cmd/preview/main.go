// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command preview renders layout markup files for a device and writes
// the rendered frames as PNG files.
package main

import "cogentcore.org/preview/cmd/preview/cmd"

func main() {
	cmd.Execute()
}
