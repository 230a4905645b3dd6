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


// Command recode repairs text files whose Cyrillic content was decoded
// under a wrong single-byte code page. It reads the named file (or stdin),
// writes the repaired text to stdout, and reports the recovery outcome on
// stderr.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/poiesic/studykit/textproc"
)

func main() {
	var (
		data []byte
		err  error
	)
	if len(os.Args) > 1 {
		data, err = os.ReadFile(os.Args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "recode: %v\n", err)
		os.Exit(1)
	}

	repaired, status := textproc.Recover(string(data))
	fmt.Fprintf(os.Stderr, "recode: recovery %s\n", status)
	fmt.Print(repaired)
}
