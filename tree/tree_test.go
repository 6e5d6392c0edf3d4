package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmptyRoot(t *testing.T) {
	tr := New()
	got, err := tr.List("/")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestScenario1CreateThenList(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))

	got, err := tr.List("/")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	got, err = tr.List("/a/")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestScenario2DuplicateCreate(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	assert.ErrorIs(t, tr.Create("/a/"), ErrExists)
}

func TestScenario3CreateMissingParent(t *testing.T) {
	tr := New()
	assert.ErrorIs(t, tr.Create("/a/b/"), ErrNotExist)
}

func TestScenario4RemoveNonEmpty(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/a/b/"))
	assert.ErrorIs(t, tr.Remove("/a/"), ErrNotEmpty)

	require.NoError(t, tr.Remove("/a/b/"))
	require.NoError(t, tr.Remove("/a/"))
}

func TestScenario5RootIsUntouchable(t *testing.T) {
	tr := New()
	assert.ErrorIs(t, tr.Remove("/"), ErrBusy)
	assert.ErrorIs(t, tr.Move("/", "/x/"), ErrBusy)
}

func TestScenario6MoveAcrossSubtrees(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/b/"))
	require.NoError(t, tr.Create("/a/x/"))
	require.NoError(t, tr.Move("/a/x/", "/b/y/"))

	got, err := tr.List("/a/")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = tr.List("/b/")
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

func TestScenario7MoveIntoOwnSubtree(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/a/b/"))
	assert.ErrorIs(t, tr.Move("/a/", "/a/b/c/"), ErrSubtree)
}

func TestMoveSelfIsSubtree(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	assert.ErrorIs(t, tr.Move("/a/", "/a/"), ErrSubtree)
}

func TestMoveMissingSource(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/b/"))
	assert.ErrorIs(t, tr.Move("/a/", "/b/a/"), ErrNotExist)
}

func TestMoveTargetAlreadyExists(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/b/"))
	assert.ErrorIs(t, tr.Move("/a/", "/b/"), ErrExists)
}

func TestMoveSiblingRename(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/a/x/"))
	require.NoError(t, tr.Move("/a/x/", "/a/y/"))

	got, err := tr.List("/a/")
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

func TestMoveWithGrandchildren(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Create("/a/"))
	require.NoError(t, tr.Create("/a/x/"))
	require.NoError(t, tr.Create("/a/x/y/"))
	require.NoError(t, tr.Create("/b/"))

	require.NoError(t, tr.Move("/a/x/", "/b/x/"))

	got, err := tr.List("/b/x/")
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

func TestInvalidPaths(t *testing.T) {
	tr := New()
	_, err := tr.List("a/")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, tr.Create("/A/"), ErrInvalidPath)
	assert.ErrorIs(t, tr.Remove("not-a-path"), ErrInvalidPath)
	assert.ErrorIs(t, tr.Move("/a", "/b/"), ErrInvalidPath)
}

func TestCodeMapping(t *testing.T) {
	assert.Equal(t, EOK, Code(nil))
	assert.Equal(t, EINVAL, Code(ErrInvalidPath))
	assert.Equal(t, EEXIST, Code(ErrExists))
	assert.Equal(t, ENOENT, Code(ErrNotExist))
	assert.Equal(t, ENOTEMPTY, Code(ErrNotEmpty))
	assert.Equal(t, EBUSY, Code(ErrBusy))
	assert.Equal(t, ESubtree, Code(ErrSubtree))
}
