package afpacket

import "fmt"

// PACKET_MMAP alignment constants.
const (
	tpacketAlignment = 16
	tpacketHdrLen    = 52
	maxBlockSize     = 4 * 1024 * 1024
)

// ringLayout derives PACKET_MMAP ring dimensions from a memory budget.
// frameSize must be a multiple of TPACKET_ALIGNMENT, blockSize a
// multiple of both the page size and frameSize, and
// blockSize*numBlocks approximates bufferSizeMB.
func ringLayout(bufferSizeMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	if bufferSizeMB <= 0 {
		return 0, 0, 0, fmt.Errorf("bufferSizeMB must be positive, got %d", bufferSizeMB)
	}
	if snapLen <= 0 {
		return 0, 0, 0, fmt.Errorf("snapLen must be positive, got %d", snapLen)
	}
	if pageSize <= 0 || pageSize%tpacketAlignment != 0 {
		return 0, 0, 0, fmt.Errorf("pageSize must be positive and a multiple of %d, got %d", tpacketAlignment, pageSize)
	}

	frameSize = align(tpacketHdrLen+snapLen, tpacketAlignment)

	// The kernel wants blockSize divisible by both pageSize and
	// frameSize. The LCM is the smallest such block; when the LCM is
	// unwieldy, pad frameSize out to a whole number of pages so any
	// multiple of it divides evenly.
	blockSize = lcm(pageSize, frameSize)
	if blockSize > maxBlockSize {
		frameSize = align(frameSize, pageSize)
		framesPerBlock := maxBlockSize / frameSize
		if framesPerBlock < 1 {
			framesPerBlock = 1
		}
		blockSize = framesPerBlock * frameSize
	}

	numBlocks = bufferSizeMB * 1024 * 1024 / blockSize
	if numBlocks < 1 {
		numBlocks = 1
	}
	return frameSize, blockSize, numBlocks, nil
}

func align(n, to int) int {
	return (n + to - 1) / to * to
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b / gcd(a, b)
}
