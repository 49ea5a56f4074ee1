package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeImportPath(t *testing.T) {
	cases := []struct {
		name    string
		current string
		matched string
		want    string
	}{
		{
			name:    "same directory",
			current: "/work/cur.capnp",
			matched: "/work/dep.capnp",
			want:    ".dep_capnp",
		},
		{
			name:    "dependency in subdirectory",
			current: "/work/cur.capnp",
			matched: "/work/sub/dep.capnp",
			want:    ".sub.dep_capnp",
		},
		{
			name:    "current nested below ancestor",
			current: "/work/x/y/cur.capnp",
			matched: "/work/dep.capnp",
			want:    "...dep_capnp",
		},
		{
			name:    "sibling trees",
			current: "/work/a/cur.capnp",
			matched: "/work/b/dep.capnp",
			want:    "..b.dep_capnp",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := relativeImportPath(tc.current, tc.matched)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCommonAncestor(t *testing.T) {
	assert.Equal(t, "/work", commonAncestor("/work/a/cur.capnp", "/work/dep.capnp"))
	assert.Equal(t, "/work", commonAncestor("/work/cur.capnp", "/work/dep.capnp"))
	assert.Equal(t, "/", commonAncestor("/alpha/cur.capnp", "/beta/dep.capnp"))
	assert.Equal(t, "rel", commonAncestor("rel/cur.capnp", "rel/dep.capnp"))
}
