/*
Package fsx provides the filesystem helpers the queue executes against.

	+-----------+
	|   Queue   |
	| (Executor)|
	+-----+-----+
	      |
	+-----+-----+
	|    fsx    |
	| (afero.Fs)|
	+-----------+

🎯 Purpose:
- Walks path sets to estimate total bytes and file counts
- Computes quick and cryptographic digests for verification
- Derives collision-free destination names
- Provides the trash facility used by non-permanent deletes

🔄 Flow:
1. Estimator walks sources at enqueue time, skipping unreadable entries
2. Executor streams bytes through afero file handles
3. Verification digests source and destination and compares
4. Non-permanent deletes hand paths to the Trash implementation

⚡ Key Responsibilities:
- Size/count estimation with exclude-glob filtering
- Digest chain: size compare, xxhash64, then SHA-256
- Unique-name derivation for rename resolutions and trash collisions
- Trash directory management

🤝 Interfaces:
- afero.Fs: every helper takes the filesystem as its first argument
- Trash: narrow seam for the recycle facility

📝 Design Philosophy:
Everything here is stateless with respect to the queue. Helpers take an
afero.Fs so tests run against an in-memory filesystem and the executor runs
against the real one without either side knowing the difference. Traversal
errors are skipped, never raised: an unreadable subtree reduces the estimate
rather than failing the operation that asked for it.
*/
package fsx
