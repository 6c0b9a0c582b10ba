package dom

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash is the composite identity of an interactive element. Raw ids and DOM
// references die with each capture; this hash is the only way to say "this
// is probably the same logical element I saw before". It deliberately
// ignores text content and transient state so value changes do not break
// identity, while staying sensitive to structure, attributes, and xpath.
type Hash struct {
	BranchPath string `json:"branchPathHash"`
	Attributes string `json:"attributesHash"`
	XPath      string `json:"xpathHash"`
}

// Composite collapses the three digests into the single identity string
// used for cross-capture comparison.
func (h Hash) Composite() string {
	return digest(h.BranchPath + "-" + h.Attributes + "-" + h.XPath)
}

// HashNode computes the identity hash of a node. Pure function of the
// node's ancestor tag path, attribute map, and xpath.
func HashNode(n *Node) Hash {
	return Hash{
		BranchPath: digest(strings.Join(n.AncestorTagPath(), "/")),
		Attributes: digest(flattenAttributes(n.Attributes)),
		XPath:      digest(n.XPath),
	}
}

// flattenAttributes serializes an attribute map as sorted key=value pairs,
// making the digest independent of map iteration order.
func flattenAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+attrs[k])
	}
	return strings.Join(pairs, ";")
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashSet is a set of composite identity hashes.
type HashSet map[string]struct{}

// NewHashSet builds a set from the given hashes.
func NewHashSet(hashes ...string) HashSet {
	s := make(HashSet, len(hashes))
	for _, h := range hashes {
		s.Add(h)
	}
	return s
}

func (s HashSet) Add(h string)      { s[h] = struct{}{} }
func (s HashSet) Has(h string) bool { _, ok := s[h]; return ok }
func (s HashSet) Len() int          { return len(s) }

// Changes is the classification of hash-set differences between two
// captures.
type Changes struct {
	Added     HashSet
	Removed   HashSet
	Unchanged HashSet
}

// DiffHashes computes added/removed/unchanged between the previous and
// current captures' hash sets. Plain set algebra; nil sets behave as empty.
func DiffHashes(previous, current HashSet) Changes {
	c := Changes{
		Added:     make(HashSet),
		Removed:   make(HashSet),
		Unchanged: make(HashSet),
	}
	for h := range current {
		if previous.Has(h) {
			c.Unchanged.Add(h)
		} else {
			c.Added.Add(h)
		}
	}
	for h := range previous {
		if !current.Has(h) {
			c.Removed.Add(h)
		}
	}
	return c
}
