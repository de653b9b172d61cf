// This file is part of pl0 - https://github.com/dcrane/pl0
//
// Copyright 2026 Danny Crane
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

package vm

import "io"

// lineSink mirrors WRT output to an external writer. It exists so that
// Instance doesn't need to special-case io.Writer implementations that
// already buffer/flush (e.g. a bufio.Writer passed by a driver).
type lineSink interface {
	WriteLine(s string) error
}

type writerLineSink struct {
	w io.Writer
}

func (s *writerLineSink) WriteLine(line string) error {
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// newLineSink wraps w in a lineSink, or returns nil if w is nil.
func newLineSink(w io.Writer) lineSink {
	if w == nil {
		return nil
	}
	return &writerLineSink{w: w}
}
