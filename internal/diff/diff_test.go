// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import "testing"

func TestDiff(t *testing.T) {
	if d := Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Errorf("equal strings: got diff %q", d)
	}
	if d := Diff("a\nb\n", "a\nc\n"); d == "" {
		t.Errorf("different strings: got no diff")
	}
}

func TestFirstDiff(t *testing.T) {
	for _, test := range []struct {
		s1, s2, want string
	}{
		{"a\nb\n", "a\nc\n", "line 2:\n-b\n+c\n"},
		{"a\n", "a\nb\n", "line 2:\n-\n+b\n"},
		{"x", "y", "line 1:\n-x\n+y\n"},
	} {
		if got := firstDiff(test.s1, test.s2); got != test.want {
			t.Errorf("firstDiff(%q, %q) = %q, want %q", test.s1, test.s2, got, test.want)
		}
	}
}
