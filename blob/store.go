// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob

import "context"

// Store provides read access to raw material content by reference.
type Store interface {
	// Get returns the content addressed by ref.
	//
	// Returns ErrBlobNotFound if no content exists for the reference.
	Get(ctx context.Context, ref string) ([]byte, error)
}
