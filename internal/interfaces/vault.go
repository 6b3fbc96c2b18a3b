package interfaces

// Sealer encrypts and decrypts blobs at rest. Open passes through data
// that was never sealed.
type Sealer interface {
	Enabled() bool
	Seal(plain []byte) ([]byte, error)
	Open(data []byte) ([]byte, error)
}
