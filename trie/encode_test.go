package trie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/trie"
)

func TestNodeEncodeDecodeRoundTrip(t *testing.T) {
	leaf := trie.NewLeaf(mustAccountKey(0x01), gs.CLI32(7))
	ext := trie.NewExtension([]byte{0x01, 0x02, 0x03}, trie.Pointer{Kind: trie.LeafPointer, Digest: leaf.Digest()})
	branch := trie.NewBranch()
	branch.Children[0x10] = trie.Pointer{Kind: trie.NodePointer, Digest: ext.Digest()}
	branch.Children[0x20] = trie.Pointer{Kind: trie.LeafPointer, Digest: leaf.Digest()}

	for _, n := range []*trie.Node{leaf, ext, branch} {
		decoded, err := trie.DecodeNode(n.Bytes())
		require.NoError(t, err)
		assert.Equal(t, n.Digest(), decoded.Digest())
	}
}

func TestDecodeNodeRejectsMalformed(t *testing.T) {
	_, err := trie.DecodeNode(nil)
	assert.Error(t, err)

	_, err = trie.DecodeNode([]byte{0xFF})
	assert.Error(t, err)
}

func TestEmptyRootIsStableAcrossBranchInstances(t *testing.T) {
	assert.Equal(t, trie.NewBranch().Digest(), trie.EmptyRoot())
}
