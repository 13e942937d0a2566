package adapter

// Transform mutates object bytes crossing the remote boundary. Seal is
// applied before upload, Open after download. The engine plugs in an
// AEAD implementation when a passphrase is configured.
type Transform interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

type noopTransform struct{}

func (noopTransform) Seal(plain []byte) ([]byte, error)  { return plain, nil }
func (noopTransform) Open(sealed []byte) ([]byte, error) { return sealed, nil }

// NoopTransform returns the identity [Transform] used when no
// passphrase is configured.
func NoopTransform() Transform { return noopTransform{} }
