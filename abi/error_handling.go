// Copyright 2025 The ethergo Authors
// This file is part of the ethergo library.
//
// The ethergo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ethergo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ethergo library. If not, see <http://www.gnu.org/licenses/>.

package abi

import "errors"

var (
	// errBadBool is returned when a boolean word carries a value other than
	// 0 or 1, or nonzero padding.
	errBadBool = errors.New("abi: improperly encoded boolean value")

	// errBadEnum is returned when an enum word carries a value outside the
	// 8 bit domain.
	errBadEnum = errors.New("abi: improperly encoded enum value")
)
