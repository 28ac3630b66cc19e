package gpu

// BlockSize is the element granularity GPU submission buffers grow by.
const BlockSize = 256

// GrowCount rounds count up to a whole number of blocks.
func GrowCount(count int) int {
	if count <= 0 {
		return BlockSize
	}
	return ((count-1)/BlockSize + 1) * BlockSize
}

// EnsureBuffer returns buf when it already holds count elements, otherwise it
// releases buf and allocates a replacement sized by GrowCount. Buffers never
// shrink.
func EnsureBuffer(dev Device, buf Buffer, kind BufferKind, count, stride int) (Buffer, error) {
	if buf != nil && buf.Count() >= count {
		return buf, nil
	}
	if buf != nil {
		buf.Release()
	}
	return dev.NewBuffer(kind, GrowCount(count), stride)
}
