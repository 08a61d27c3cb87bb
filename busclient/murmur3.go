package busclient

import "github.com/segmentio/kafka-go"

// murmur3Balancer routes messages to partitions using the 32-bit Murmur3
// hash of the message key, matching the hashing scheme the producer needs
// for compatibility with consumers that repartition by the same scheme.
// No murmur3 implementation exists anywhere in the available dependency
// set, so this is a small self-contained port of the public-domain
// algorithm rather than a third-party import.
type murmur3Balancer struct{}

func (murmur3Balancer) Balance(msg kafka.Message, partitions ...int) int {
	if len(partitions) == 0 {
		return 0
	}
	h := murmur3Sum32(msg.Key, 0)
	// Match Cassandra/Kafka's convention of masking off the sign bit before
	// taking the modulus, so the result is always a valid partition index.
	idx := int(h&0x7fffffff) % len(partitions)
	return partitions[idx]
}

const (
	murmurC1 uint32 = 0xcc9e2d51
	murmurC2 uint32 = 0x1b873593
)

func murmur3Sum32(data []byte, seed uint32) uint32 {
	h := seed
	length := len(data)
	nBlocks := length / 4

	for i := 0; i < nBlocks; i++ {
		k := uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		k *= murmurC1
		k = (k << 15) | (k >> 17)
		k *= murmurC2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	tail := data[nBlocks*4:]
	var k1 uint32
	switch len(tail) {
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		k1 *= murmurC1
		k1 = (k1 << 15) | (k1 >> 17)
		k1 *= murmurC2
		h ^= k1
	}

	h ^= uint32(length)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}
