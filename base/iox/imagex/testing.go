// Copyright 2023 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import "image/color"

// CompareUint8 returns true if two numbers are within tol of each other
func CompareUint8(cc, ic uint8, tol int) bool {
	d := int(cc) - int(ic)
	return d >= -tol && d <= tol
}

// CompareColors returns true if two colors are within tol of each other
// on every channel
func CompareColors(cc, ic color.RGBA, tol int) bool {
	return CompareUint8(cc.R, ic.R, tol) && CompareUint8(cc.G, ic.G, tol) &&
		CompareUint8(cc.B, ic.B, tol) && CompareUint8(cc.A, ic.A, tol)
}
