package extractor

import "crypto/md5"

// Digest hashes the serialized wire form of one partition update. Extract
// computes it once per partition update, so every Mutation record derived
// from that update shares it even when it was split across several row
// events. The partition updates of a multi-partition commit-log mutation
// are hashed separately and get different digests.
func Digest(serialized []byte) [16]byte {
	return md5.Sum(serialized)
}
