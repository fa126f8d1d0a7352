// Package kvt implements a typed key/value tree and its two encodings.
//
// # Model
//
// A tree is rooted at a [Branch], which maps names to child nodes. A child is
// another branch, a [Scalar] leaf holding one value, or an [Array] leaf
// holding a homogeneous sequence. Every node has one of the 18 kinds of
// [NodeType]: nine scalar kinds and an array kind for each.
//
//	root := kvt.NewBranch()
//	_ = root.Put("name", kvt.String("spawn"))
//	_ = root.Set("pos", kvt.TypeFloatArray, kvt.FloatArray{1, 0, -2.5})
//	player, _ := root.Add("player")
//	_ = player.Put("hp", kvt.Short(20))
//
// Children are kept in lexicographic key order. Names are flat: "a.b" is a
// single key, not a path.
//
// Values are read back with [Node.Get], with the strict generic [As], or with
// the Get* convenience methods of [Branch], which return a zero value (or an
// empty slice) instead of an error.
//
// # Text format
//
//	{
//	  name: "spawn",
//	  player: {hp: 20s},
//	  pos: [F: 1.0, 0.0, -2.5]
//	}
//
// Integer literals take a b, s or L suffix for BYTE, SHORT and LONG and are
// INTEGER otherwise; floating-point literals take f for FLOAT and are DOUBLE
// otherwise. Arrays start with a letter naming their kind: Z, B, S, I, L, F,
// D, T (string) or N (node). [Parse] reads the format and [Format] writes it.
//
// # Binary format
//
// [Encode] writes a tag-length-value encoding: each child is its type tag,
// its name (32-bit length, big-endian, then UTF-8 bytes) and its payload.
// [Decode] reads it back. [WriteFile] and [ReadFile] add optional gzip
// compression.
//
// # Errors
//
// Failures are reported as [*Error] values classified by [Kind]; test for a
// class with [errors.Is] against the Err* sentinels.
package kvt
