/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build !windows

package cryptui

type unsupportedFacility struct{}

// Platform returns a facility that refuses every request, since cryptui.dll
// only exists on Windows.
func Platform() Facility {
	return unsupportedFacility{}
}

func (unsupportedFacility) NewArena() (Arena, error) {
	return nil, ErrUnsupported
}

func (unsupportedFacility) DigitalSign(uintptr) (bool, error) {
	return false, ErrUnsupported
}
