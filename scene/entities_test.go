// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	es := &Entities{}
	assert.True(t, es.IsEmpty())
	es.Edges = append(es.Edges, &Edge{})
	assert.False(t, es.IsEmpty())
}

func TestWalk(t *testing.T) {
	inner := NewGroup("inner")
	inner.Entities.Faces = append(inner.Entities.Faces, &Face{})
	outer := NewGroup("outer")
	outer.Entities.Groups = append(outer.Entities.Groups, inner)
	root := &Entities{Groups: []*Group{outer, NewGroup("side")}}

	var visits []string
	root.Walk(func(path []*Group, es *Entities) {
		names := make([]string, len(path))
		for i, gp := range path {
			names[i] = gp.Name
		}
		visits = append(visits, strings.Join(names, "/"))
		if len(path) > 0 && path[len(path)-1] == inner {
			require.Len(t, es.Faces, 1)
		}
	})
	assert.Equal(t, []string{"", "outer", "outer/inner", "side"}, visits)
}
